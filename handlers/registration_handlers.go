// handlers/registration_handlers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/farmatrack/models"
	"p9e.in/farmatrack/store"
)

type registrazioneOut struct {
	ID       uuid.UUID `json:"id"`
	Nome     string    `json:"nome"`
	Email    string    `json:"email"`
	Telefono string    `json:"telefono,omitempty"`
	Stato    string    `json:"stato"`
}

func (h *Handler) ListRegistrazioni(w http.ResponseWriter, r *http.Request) {
	stato := r.URL.Query().Get("stato")
	var out []registrazioneOut
	for _, rg := range h.Data.Registrazioni() {
		if stato != "" && rg.Stato != stato {
			continue
		}
		out = append(out, registrazioneOut{
			ID: rg.ID, Nome: rg.Nome, Email: rg.Email, Telefono: rg.Telefono, Stato: rg.Stato,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ApproveRegistrazione turns a pending application into a merchandiser
// account. Decided applications stay decided.
func (h *Handler) ApproveRegistrazione(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	u, err := h.Data.ApproveRegistrazione(id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "registration not found", http.StatusNotFound)
		case errors.Is(err, store.ErrRegistrazioneChiusa):
			http.Error(w, "registration already decided", http.StatusConflict)
		case errors.Is(err, store.ErrEmailTaken):
			http.Error(w, "email already in use", http.StatusConflict)
		default:
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toUserPayload(u))
}

func (h *Handler) RejectRegistrazione(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Data.RejectRegistrazione(id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "registration not found", http.StatusNotFound)
		case errors.Is(err, store.ErrRegistrazioneChiusa):
			http.Error(w, "registration already decided", http.StatusConflict)
		default:
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"stato": models.RegistrazioneRejected})
}
