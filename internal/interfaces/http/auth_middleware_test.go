package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	apphttp "github.com/jhoicas/libreria-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/libreria-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testEmail     = "equipo@libreria.test"
	testIssuer    = "libreria-api-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware,
// RequireRole y un handler dummy que devuelve 200 si pasa los middlewares.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado y sus permisos por defecto.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	var perms []string
	for _, r := range entity.DefaultRoles() {
		if r.Name == role {
			perms = r.Permissions
		}
	}
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{
		UserID: testUserID, Email: testEmail, Role: role, Permissions: perms,
	}, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	return doGet(t, app, "/protected", authHeader)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin debe acceder a una ruta solo-admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestRequireRole_EditorAccedeRutaAdminOEditor(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleEditor)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleEditor))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_ClienteBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleCustomer))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{UserID: testUserID}, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer esto.no.es.un.jwt")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_FormatoSinBearer_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "Token abc")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":     apphttp.GetUserID(c),
			"email":       apphttp.GetEmail(c),
			"role":        apphttp.GetRole(c),
			"permissions": apphttp.GetPermissions(c),
		})
	})

	resp := doGet(t, app, "/me", tokenForRole(t, entity.RoleEditor))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID      string   `json:"user_id"`
		Email       string   `json:"email"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, testEmail, body.Email)
	assert.Equal(t, entity.RoleEditor, body.Role)
	assert.Contains(t, body.Permissions, entity.PermBooksEdit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireMinRole / RequirePermission / OptionalAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireMinRole(t *testing.T) {
	app := fiber.New()
	app.Get("/staff", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireMinRole(entity.RoleEditor),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	cases := map[string]int{
		entity.RoleSuperAdmin: http.StatusOK,
		entity.RoleAdmin:      http.StatusOK,
		entity.RoleEditor:     http.StatusOK,
		entity.RoleViewer:     http.StatusForbidden,
		entity.RoleCustomer:   http.StatusForbidden,
	}
	for role, want := range cases {
		resp := doGet(t, app, "/staff", tokenForRole(t, role))
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, "rol %s", role)
	}
}

func TestRequirePermission(t *testing.T) {
	app := fiber.New()
	app.Get("/settings", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequirePermission(entity.PermIntegrationsEdit),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp := doGet(t, app, "/settings", tokenForRole(t, entity.RoleSuperAdmin))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "super_admin pasa siempre")

	resp = doGet(t, app, "/settings", tokenForRole(t, entity.RoleAdmin))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "admin no gestiona integraciones")
}

func TestOptionalAuth_SinTokenSigueComoAnonimo(t *testing.T) {
	app := fiber.New()
	app.Get("/catalogo", apphttp.OptionalAuth(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"role": apphttp.GetRole(c)})
	})

	for _, header := range []string{"", "Bearer basura"} {
		resp := doGet(t, app, "/catalogo", header)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body["role"])
	}

	resp := doGet(t, app, "/catalogo", tokenForRole(t, entity.RoleEditor))
	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.RoleEditor, body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireIntegration
// ──────────────────────────────────────────────────────────────────────────────

type stubChecker struct {
	active bool
	err    error
}

func (s stubChecker) HasActiveModule(context.Context, string) (bool, error) {
	return s.active, s.err
}

func TestRequireIntegration(t *testing.T) {
	build := func(ch stubChecker) *fiber.App {
		app := fiber.New()
		app.Get("/abebooks", apphttp.RequireIntegration("abebooks", ch),
			func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		return app
	}

	resp := doGet(t, build(stubChecker{active: true}), "/abebooks", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doGet(t, build(stubChecker{active: false}), "/abebooks", "")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "MODULE_DISABLED")

	resp = doGet(t, build(stubChecker{err: errors.New("db caída")}), "/abebooks", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
