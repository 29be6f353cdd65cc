// handlers/file_gcs.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSUploader stores files in a Google Cloud Storage bucket and returns the
// public object URL.
type GCSUploader struct {
	bucket string
	client *storage.Client
}

func NewGCSUploader(bucket string) (*GCSUploader, error) {
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET not set")
	}
	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSUploader{bucket: bucket, client: client}, nil
}

func (g *GCSUploader) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	obj := g.client.Bucket(g.bucket).Object(name)
	wtr := obj.NewWriter(ctx)
	wtr.ContentType = contentType
	if _, err := io.Copy(wtr, r); err != nil {
		wtr.Close()
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := wtr.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", name, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, name), nil
}
