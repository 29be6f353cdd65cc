// handlers/campo_handlers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/farmatrack/models"
	"p9e.in/farmatrack/store"
)

// ListCampi returns the configured survey fields, optionally one phase only.
// The capture form renders the active ones in displayOrder.
func (h *Handler) ListCampi(w http.ResponseWriter, r *http.Request) {
	campi := h.Data.Campi()
	if raw := r.URL.Query().Get("fase"); raw != "" {
		fase, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid fase", http.StatusBadRequest)
			return
		}
		filtered := campi[:0]
		for _, c := range campi {
			if c.Fase == fase {
				filtered = append(filtered, c)
			}
		}
		campi = filtered
	}
	sort.SliceStable(campi, func(i, j int) bool {
		if campi[i].Fase != campi[j].Fase {
			return campi[i].Fase < campi[j].Fase
		}
		return campi[i].Ordine < campi[j].Ordine
	})
	writeJSON(w, http.StatusOK, campi)
}

func validTipo(tipo string) bool {
	return tipo == models.TipoCampoText || tipo == models.TipoCampoNumber || tipo == models.TipoCampoBoolean
}

func (h *Handler) CreateCampo(w http.ResponseWriter, r *http.Request) {
	var c models.CampoRilievo
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if c.Nome == "" || c.Etichetta == "" {
		http.Error(w, "nome and etichetta are required", http.StatusBadRequest)
		return
	}
	if c.Tipo == "" {
		c.Tipo = models.TipoCampoText
	}
	if !validTipo(c.Tipo) {
		http.Error(w, "tipo must be text, number or boolean", http.StatusBadRequest)
		return
	}
	if err := h.Data.AddCampo(&c); err != nil {
		if errors.Is(err, store.ErrFaseInvalida) {
			http.Error(w, "fase must be 1, 2 or 3", http.StatusBadRequest)
			return
		}
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCampo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	fields, err := decodeSparse(r, campoFields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if tipo, ok := fields["tipo"].(string); ok && !validTipo(tipo) {
		http.Error(w, "tipo must be text, number or boolean", http.StatusBadRequest)
		return
	}
	if err := h.Data.UpdateCampo(id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "campo not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteCampo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Data.RemoveCampo(id); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
