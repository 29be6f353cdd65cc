// handlers/assignment_handlers.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/farmatrack/middleware"
	"p9e.in/farmatrack/models"
)

func (h *Handler) ListAssegnazioni(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Data.Assegnazioni())
}

// MyAssignments lists the farmacie assigned to the calling merchandiser,
// enriched with their rollout state.
func (h *Handler) MyAssignments(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token claims", http.StatusUnauthorized)
		return
	}
	mine := map[uuid.UUID]bool{}
	for _, a := range h.Data.Assegnazioni() {
		if a.MerchandiserID == userID {
			mine[a.FarmaciaID] = true
		}
	}
	var farmacie []models.Farmacia
	for _, fa := range h.Data.Farmacie() {
		if mine[fa.ID] {
			farmacie = append(farmacie, fa)
		}
	}
	writeJSON(w, http.StatusOK, h.decorate(farmacie))
}

type assignReq struct {
	FarmaciaID     uuid.UUID `json:"farmaciaId"`
	MerchandiserID uuid.UUID `json:"merchandiserId"`
}

// Assign pairs a farmacia with a merchandiser. Any previous assignment of
// the same farmacia is replaced.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if _, found := h.Data.FindFarmacia(req.FarmaciaID); !found {
		http.Error(w, "farmacia not found", http.StatusNotFound)
		return
	}
	u, found := h.Data.FindUser(req.MerchandiserID)
	if !found {
		http.Error(w, "merchandiser not found", http.StatusNotFound)
		return
	}
	if u.Role != models.RoleMerchandiser {
		http.Error(w, "user is not a merchandiser", http.StatusBadRequest)
		return
	}
	if err := h.Data.Assign(req.FarmaciaID, req.MerchandiserID); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	farmaciaID, err := uuid.Parse(mux.Vars(r)["farmaciaId"])
	if err != nil {
		http.Error(w, "invalid farmaciaId", http.StatusBadRequest)
		return
	}
	if err := h.Data.Unassign(farmaciaID); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
