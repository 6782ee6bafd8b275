package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/libreria-api/pkg/config"
)

func TestNewClient_SinDireccion(t *testing.T) {
	_, err := NewClient(context.Background(), config.RedisConfig{})
	assert.Error(t, err)
}

func TestNewIdempotencyStore_PrefijoPorDefecto(t *testing.T) {
	s := NewIdempotencyStore(nil, "")
	assert.Equal(t, "idempotency:", s.prefix)
	assert.Equal(t, "stripe:", NewIdempotencyStore(nil, "stripe:").prefix)
}
