// handlers/rilievo_handlers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"p9e.in/farmatrack/middleware"
	"p9e.in/farmatrack/models"
	"p9e.in/farmatrack/store"
)

func (h *Handler) ListRilievi(w http.ResponseWriter, r *http.Request) {
	rilievi := h.Data.Rilievi()
	if raw := r.URL.Query().Get("farmaciaId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid farmaciaId", http.StatusBadRequest)
			return
		}
		filtered := rilievi[:0]
		for _, rv := range rilievi {
			if rv.FarmaciaID == id {
				filtered = append(filtered, rv)
			}
		}
		rilievi = filtered
	}
	writeJSON(w, http.StatusOK, rilievi)
}

// SubmitRilievo records one phase survey. A merchandiser may only submit
// for a farmacia currently assigned to them; an admin may submit anywhere.
// Resubmitting the same (farmacia, fase) replaces the previous record.
func (h *Handler) SubmitRilievo(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	var rv models.Rilievo
	if err := json.NewDecoder(r.Body).Decode(&rv); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if rv.FarmaciaID == uuid.Nil {
		http.Error(w, "farmaciaId is required", http.StatusBadRequest)
		return
	}
	if _, found := h.Data.FindFarmacia(rv.FarmaciaID); !found {
		http.Error(w, "farmacia not found", http.StatusNotFound)
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token claims", http.StatusUnauthorized)
		return
	}
	if claims.Role == models.RoleMerchandiser {
		assigned, ok := h.Data.AssegnatarioDi(rv.FarmaciaID)
		if !ok || assigned != userID {
			http.Error(w, "farmacia not assigned to you", http.StatusForbidden)
			return
		}
	}
	rv.MerchandiserID = userID
	if err := h.Data.SubmitRilievo(&rv); err != nil {
		if errors.Is(err, store.ErrFaseInvalida) {
			http.Error(w, "fase must be 1, 2 or 3", http.StatusBadRequest)
			return
		}
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}
