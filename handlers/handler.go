// handlers/handler.go
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"p9e.in/farmatrack/store"
)

// Uploader stores a photo or planogram and returns a resolvable URL.
type Uploader interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
}

// Handler carries the application state into the HTTP layer. All reads and
// writes go through the facade; handlers never touch a backend directly.
type Handler struct {
	Data    *store.Facade
	Uploads Uploader
}

func New(data *store.Facade, uploads Uploader) *Handler {
	return &Handler{Data: data, Uploads: uploads}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
