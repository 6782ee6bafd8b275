package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/pkg/config"
)

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "", NormalizeEndpoint("  "))
	assert.Equal(t, "https://minio.local:9000", NormalizeEndpoint("minio.local:9000/"))
	assert.Equal(t, "http://localhost:9000", NormalizeEndpoint("http://localhost:9000"))
}

func TestNewS3Storage_Validacion(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.StorageConfig{AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)
	_, err = NewS3Storage(context.Background(), config.StorageConfig{Bucket: "libreria"})
	assert.Error(t, err)
}

func TestPresignGet_Local(t *testing.T) {
	s, err := NewS3Storage(context.Background(), config.StorageConfig{
		Endpoint: "http://localhost:9000", Region: "eu-west-1", Bucket: "libreria",
		AccessKey: "minio", SecretKey: "minio123", UsePathStyle: true,
	})
	require.NoError(t, err)

	url, err := s.PresignGet(context.Background(), "exports/2026/03/libros.csv", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/libreria/exports/2026/03/libros.csv?"))
	assert.Contains(t, url, "X-Amz-Expires=600")
}
