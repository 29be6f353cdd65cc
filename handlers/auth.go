// handlers/auth.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"p9e.in/farmatrack/middleware"
	"p9e.in/farmatrack/models"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID       uuid.UUID `json:"id"`
	Nome     string    `json:"nome"`
	Email    string    `json:"email"`
	Telefono string    `json:"telefono,omitempty"`
	Role     string    `json:"role"`
}

type loginResp struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func toUserPayload(u models.User) userPayload {
	return userPayload{ID: u.ID, Nome: u.Nome, Email: u.Email, Telefono: u.Telefono, Role: u.Role}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	u, ok := h.Data.Authenticate(req.Email, req.Password)
	if !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	token, err := middleware.GenerateToken(u.ID.String(), u.Role, u.Nome, u.Email)
	if err != nil {
		http.Error(w, "couldn't create token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, loginResp{Token: token, User: toUserPayload(u)})
}

type registerReq struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Password string `json:"password"`
}

// Register files a self-service merchandiser application. The account only
// exists after an admin approves it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Nome == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "nome, email and password are required", http.StatusBadRequest)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}
	rg := models.Registrazione{
		Nome:         req.Nome,
		Email:        req.Email,
		Telefono:     req.Telefono,
		PasswordHash: string(hash),
	}
	if err := h.Data.SubmitRegistrazione(&rg); err != nil {
		http.Error(w, "could not submit registration: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": rg.ID, "stato": rg.Stato})
}

// GetCurrentUser resolves the bearer token back to the user record.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token claims", http.StatusUnauthorized)
		return
	}
	u, found := h.Data.FindUser(id)
	if !found {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(u))
}
