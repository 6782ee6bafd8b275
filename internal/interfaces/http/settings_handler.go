package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
)

// SettingsHandler configuración del sistema por categorías y banners de la tienda.
type SettingsHandler struct {
	settings *usecase.SettingsUseCase
	banners  *usecase.BannerUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(settings *usecase.SettingsUseCase, banners *usecase.BannerUseCase) *SettingsHandler {
	return &SettingsHandler{settings: settings, banners: banners}
}

// GetAll GET /api/settings
func (h *SettingsHandler) GetAll(c *fiber.Ctx) error {
	out, err := h.settings.GetAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Configuración de una categoría
// @Description  Devuelve los valores guardados sobre los valores por defecto.
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        category  path  string  true  "company, billing, shipping, system, security, integrations"
// @Success      200  {object}  dto.SettingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/{category} [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	out, err := h.settings.Get(c.Context(), c.Params("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Guardar configuración de una categoría
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        category  path  string  true  "Categoría"
// @Success      200  {object}  dto.SettingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/settings/{category} [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	body := c.Body()
	if !json.Valid(body) {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	raw := append(json.RawMessage(nil), body...)
	out, err := h.settings.Update(c.Context(), c.Params("category"), raw, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reset POST /api/settings/:category/reset
func (h *SettingsHandler) Reset(c *fiber.Ctx) error {
	out, err := h.settings.Reset(c.Context(), c.Params("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListBanners GET /api/banners
func (h *SettingsHandler) ListBanners(c *fiber.Ctx) error {
	out, err := h.banners.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ActiveBanner godoc
// @Summary      Banner vigente de la tienda
// @Description  El activo de mayor prioridad dentro de sus fechas. 204 si no hay ninguno.
// @Tags         banners
// @Produce      json
// @Success      200  {object}  dto.BannerResponse
// @Success      204
// @Router       /api/banners/active [get]
func (h *SettingsHandler) ActiveBanner(c *fiber.Ctx) error {
	out, err := h.banners.Active(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(out)
}

// CreateBanner POST /api/banners
func (h *SettingsHandler) CreateBanner(c *fiber.Ctx) error {
	var in dto.BannerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.banners.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateBanner PUT /api/banners/:id
func (h *SettingsHandler) UpdateBanner(c *fiber.Ctx) error {
	var in dto.BannerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.banners.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "banner no encontrado")
	}
	return c.JSON(out)
}

// DeleteBanner DELETE /api/banners/:id
func (h *SettingsHandler) DeleteBanner(c *fiber.Ctx) error {
	if err := h.banners.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
