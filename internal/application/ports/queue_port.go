package ports

import (
	"context"
	"time"
)

// IdempotencyStore registra claves ya procesadas (eventos de webhook).
type IdempotencyStore interface {
	// Claim devuelve true si la clave no existía y queda reservada durante ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release libera una clave reservada cuando el procesamiento falla.
	Release(ctx context.Context, key string) error
}

// JobQueue cola de trabajos en segundo plano.
type JobQueue interface {
	Push(ctx context.Context, queue string, payload []byte) error
	// Pop bloquea hasta timeout; devuelve nil sin error si no hay trabajos.
	Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
}
