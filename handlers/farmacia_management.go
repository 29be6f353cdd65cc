// handlers/farmacia_management.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/farmatrack/models"
	"p9e.in/farmatrack/store"
	"p9e.in/farmatrack/utils"
)

// farmaciaOut is a farmacia row enriched with the derived rollout state.
type farmaciaOut struct {
	models.Farmacia
	Stato          models.Stato `json:"stato"`
	FaseCorrente   int          `json:"faseCorrente"`
	MerchandiserID *uuid.UUID   `json:"merchandiserId,omitempty"`
}

func (h *Handler) decorate(farmacie []models.Farmacia) []farmaciaOut {
	byFarmacia := models.IndexRilievi(h.Data.Rilievi())
	out := make([]farmaciaOut, len(farmacie))
	for i, fa := range farmacie {
		rvs := byFarmacia[fa.ID]
		row := farmaciaOut{
			Farmacia:     fa,
			Stato:        models.DeriveStatus(rvs, fa.ID),
			FaseCorrente: models.CurrentPhase(rvs, fa.ID),
		}
		if mid, ok := h.Data.AssegnatarioDi(fa.ID); ok {
			row.MerchandiserID = &mid
		}
		out[i] = row
	}
	return out
}

func (h *Handler) ListFarmacie(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.decorate(h.Data.Farmacie()))
}

func (h *Handler) GetFarmacia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	fa, found := h.Data.FindFarmacia(id)
	if !found {
		http.Error(w, "farmacia not found", http.StatusNotFound)
		return
	}
	rows := h.decorate([]models.Farmacia{fa})
	var rilievi []models.Rilievo
	for _, rv := range h.Data.Rilievi() {
		if rv.FarmaciaID == id {
			rilievi = append(rilievi, rv)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"farmacia": rows[0],
		"rilievi":  rilievi,
	})
}

// ProgressSummary feeds the kanban board: farmacia count per rollout state.
func (h *Handler) ProgressSummary(w http.ResponseWriter, r *http.Request) {
	counts := map[models.Stato]int{
		models.StatoNotStarted: 0,
		models.StatoInProgress: 0,
		models.StatoCompleted:  0,
		models.StatoWaiting:    0,
	}
	byFarmacia := models.IndexRilievi(h.Data.Rilievi())
	farmacie := h.Data.Farmacie()
	for _, fa := range farmacie {
		counts[models.DeriveStatus(byFarmacia[fa.ID], fa.ID)]++
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totale": len(farmacie),
		"stati":  counts,
	})
}

func (h *Handler) CreateFarmacia(w http.ResponseWriter, r *http.Request) {
	var fa models.Farmacia
	if err := json.NewDecoder(r.Body).Decode(&fa); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if fa.Nome == "" {
		http.Error(w, "nome is required", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateCoordinate(fa.Latitudine, fa.Longitudine); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := utils.ValidateItalianCAP(fa.CAP); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Data.AddFarmacia(&fa); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, fa)
}

// immutable fields a sparse update may never touch
var protectedFields = map[string]bool{"id": true, "createdAt": true, "updatedAt": true}

// updatable JSON field names per entity; anything else is rejected before it
// reaches a storage backend
var (
	farmaciaFields = sparseFields("nome", "indirizzo", "citta", "provincia", "cap",
		"latitudine", "longitudine", "telefono", "referente", "planogrammaUrl", "codiceCliente")
	campoFields = sparseFields("fase", "nome", "etichetta", "tipo", "unita",
		"obbligatorio", "ordine", "attivo")
	userFields = sparseFields("nome", "telefono", "role", "isActive")
)

func sparseFields(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func decodeSparse(r *http.Request, allowed map[string]bool) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, errors.New("invalid JSON")
	}
	for k := range fields {
		if protectedFields[k] {
			delete(fields, k)
			continue
		}
		if !allowed[k] {
			return nil, fmt.Errorf("unknown field %q", k)
		}
	}
	if len(fields) == 0 {
		return nil, errors.New("no updatable fields in body")
	}
	return fields, nil
}

func (h *Handler) UpdateFarmacia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	fields, err := decodeSparse(r, farmaciaFields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Data.UpdateFarmacia(id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "farmacia not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	fa, _ := h.Data.FindFarmacia(id)
	writeJSON(w, http.StatusOK, fa)
}

func (h *Handler) DeleteFarmacia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Data.RemoveFarmacia(id); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
