package storage

import (
	"context"
	"io"
	"time"
)

// Service stores uploaded media (profile photos, article images, practice
// audio) in remote object storage and hands out short-lived read URLs.
type Service interface {
	UploadObject(ctx context.Context, bucket, key, contentType string, body io.Reader) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}
