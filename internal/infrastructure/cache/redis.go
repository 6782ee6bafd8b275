// Package cache adaptadores sobre Redis: idempotencia de webhooks y cola de trabajos.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/pkg/config"
)

// NewClient crea el cliente y comprueba la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: REDIS_ADDR no configurado")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore reserva claves con SETNX + TTL.
type IdempotencyStore struct {
	rdb    *redis.Client
	prefix string
}

// NewIdempotencyStore prefix por defecto "idempotency:".
func NewIdempotencyStore(rdb *redis.Client, prefix string) *IdempotencyStore {
	if prefix == "" {
		prefix = "idempotency:"
	}
	return &IdempotencyStore{rdb: rdb, prefix: prefix}
}

// Claim devuelve true si la clave no existía.
func (s *IdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, s.prefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: reservar %s: %w", key, err)
	}
	return ok, nil
}

// Release borra la reserva para que el evento pueda reintentarse.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: liberar %s: %w", key, err)
	}
	return nil
}

var _ ports.JobQueue = (*Queue)(nil)

// Queue cola FIFO sobre listas de Redis (LPUSH + BRPOP).
type Queue struct {
	rdb *redis.Client
}

// NewQueue construye la cola.
func NewQueue(rdb *redis.Client) *Queue { return &Queue{rdb: rdb} }

// Push encola el trabajo.
func (q *Queue) Push(ctx context.Context, queue string, payload []byte) error {
	if err := q.rdb.LPush(ctx, queue, payload).Err(); err != nil {
		return fmt.Errorf("redis: encolar en %s: %w", queue, err)
	}
	return nil
}

// Pop espera hasta timeout. Sin trabajos devuelve (nil, nil).
func (q *Queue) Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	res, err := q.rdb.BRPop(ctx, timeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: desencolar de %s: %w", queue, err)
	}
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}
