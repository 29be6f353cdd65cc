// handlers/user_management.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"p9e.in/farmatrack/models"
	"p9e.in/farmatrack/store"
)

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	var active []models.User
	for _, u := range h.Data.Users() {
		if u.IsActive {
			active = append(active, u)
		}
	}

	start := (page - 1) * limit
	if start > len(active) {
		start = len(active)
	}
	end := start + limit
	if end > len(active) {
		end = len(active)
	}

	out := make([]userPayload, 0, end-start)
	for _, u := range active[start:end] {
		out = append(out, toUserPayload(u))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total": len(active),
		"page":  page,
		"limit": limit,
		"data":  out,
	})
}

type createUserReq struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Nome == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "nome, email and password are required", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMerchandiser
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleBrand && req.Role != models.RoleMerchandiser {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}
	u := models.User{
		Nome:         req.Nome,
		Email:        req.Email,
		Telefono:     req.Telefono,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := h.Data.AddUser(&u); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			http.Error(w, "email already in use", http.StatusConflict)
			return
		}
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toUserPayload(u))
}

// UpdateUser applies a sparse update to an account: rename, phone change,
// role change or isActive toggle. Email and password stay fixed here.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	fields, err := decodeSparse(r, userFields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if role, ok := fields["role"].(string); ok {
		if role != models.RoleAdmin && role != models.RoleBrand && role != models.RoleMerchandiser {
			http.Error(w, "invalid role", http.StatusBadRequest)
			return
		}
	}
	if err := h.Data.UpdateUser(id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser removes the account. Rilievi authored by the user are left
// untouched; their merchandiser reference simply goes stale.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Data.RemoveUser(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
