package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-pruebas"

func TestGenerateYParse_ConservaRolYPermisos(t *testing.T) {
	sub := Subject{
		UserID:      "00000000-0000-0000-0000-000000000001",
		Email:       "admin@libreria.test",
		Role:        "admin",
		Permissions: []string{"libros.ver", "pedidos.gestionar"},
	}
	tok, err := Generate(testSecret, sub, "libreria-test", 60)
	require.NoError(t, err)

	claims, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, claims.UserID)
	assert.Equal(t, sub.Email, claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, sub.Permissions, claims.Permissions)
	assert.Equal(t, "libreria-test", claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := Generate(testSecret, Subject{UserID: "u1", Role: "editor"}, "libreria-test", -1)
	require.NoError(t, err)

	_, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := Generate(testSecret, Subject{UserID: "u1", Role: "editor"}, "libreria-test", 10)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", Subject{UserID: "u1"}, "x", 10)
	assert.Error(t, err)
}
