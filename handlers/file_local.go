// handlers/file_local.go
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const uploadDir = "./uploads" // local directory for file storage

// LocalUploader keeps files on disk for development and demo mode; they are
// served back under /uploads/.
type LocalUploader struct {
	Dir string
}

func (l *LocalUploader) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	if err := os.MkdirAll(l.Dir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}
	dst, err := os.Create(filepath.Join(l.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return "/uploads/" + name, nil
}
