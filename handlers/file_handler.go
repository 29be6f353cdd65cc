// handlers/file_handler.go
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// NewUploader picks the storage backend once at start-up: Google Cloud
// Storage when running in production (Cloud Run sets K_SERVICE), local disk
// otherwise. A misconfigured GCS falls back to local disk with a warning.
func NewUploader() Uploader {
	useGCS := os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != ""

	if useGCS {
		up, err := NewGCSUploader(os.Getenv("GCS_BUCKET"))
		if err == nil {
			return up
		}
		log.Printf("GCS unavailable, falling back to local uploads: %v", err)
	}
	return &LocalUploader{Dir: uploadDir}
}

// UploadFile accepts a photo or planogram and returns its public URL. The
// client attaches the URL to the rilievo or farmacia it belongs to.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	// timestamp prefix avoids collisions between same-named uploads
	name := fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), header.Filename)
	url, err := h.Uploads.Save(r.Context(), name, file, header.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, "failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url":      url,
		"filename": name,
	})
}
