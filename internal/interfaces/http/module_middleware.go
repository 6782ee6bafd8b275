package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
)

// moduleChecker es el contrato mínimo que necesita el middleware para verificar integraciones.
// Lo implementa *usecase.ModuleService; el uso de interfaz evita el import circular.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, moduleName string) (bool, error)
}

// RequireIntegration corta la petición si la integración no está activada en la configuración.
//
// Comportamiento:
//   - 403 Forbidden → integración desactivada.
//   - 503 Service Unavailable → fallo al leer la configuración.
func RequireIntegration(moduleName string, checker moduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		active, err := checker.HasActiveModule(c.UserContext(), moduleName)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "no se pudo verificar la integración, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "la integración '" + moduleName + "' no está activada",
			})
		}
		return c.Next()
	}
}
