package ports

import (
	"context"
	"time"
)

// ObjectStorage almacenamiento de ficheros (S3 compatible) para exportaciones y copias.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	// PresignGet URL temporal de descarga.
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}
