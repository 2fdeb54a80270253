package storage

import (
	"context"
	"io"
)

// UploadResult описывает сохранённый объект.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is a backend that keeps résumé files under opaque keys.
// Implementations: Cloudflare R2 (S3 API) and the local disk.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
