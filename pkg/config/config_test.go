package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Empty(t, cfg.AbeBooks.Schedule, "sin override manda la configuración guardada")
	assert.Equal(t, 12.0, cfg.AbeBooks.MinPrice)
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, 8*time.Second, cfg.ISBN.Timeout)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ABEBOOKS_MIN_PRICE", "15.5")
	t.Setenv("STORAGE_USE_PATH_STYLE", "false")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("ISBN_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 15.5, cfg.AbeBooks.MinPrice)
	assert.False(t, cfg.Storage.UsePathStyle)
	assert.True(t, cfg.Stripe.Enabled())
	assert.Equal(t, 3*time.Second, cfg.ISBN.Timeout)
}

func TestLoad_ProduccionSinSecretoFalla(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "libreria", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/libreria?sslmode=disable", c.ConnectionString())
}
