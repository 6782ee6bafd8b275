package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
)

// DiscountHandler descuentos globales y por categoría.
type DiscountHandler struct {
	discounts *usecase.DiscountUseCase
}

func NewDiscountHandler(discounts *usecase.DiscountUseCase) *DiscountHandler {
	return &DiscountHandler{discounts: discounts}
}

// Active godoc
// @Summary      Descuentos vigentes
// @Description  Activos y dentro de sus fechas, de mayor a menor porcentaje.
// @Tags         discounts
// @Produce      json
// @Success      200  {array}  dto.DiscountResponse
// @Router       /api/discounts/active [get]
func (h *DiscountHandler) Active(c *fiber.Ctx) error {
	out, err := h.discounts.Active(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/discounts
func (h *DiscountHandler) List(c *fiber.Ctx) error {
	out, err := h.discounts.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear descuento
// @Tags         discounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DiscountRequest  true  "Datos"
// @Success      201   {object}  dto.DiscountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/discounts [post]
func (h *DiscountHandler) Create(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.discounts.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/discounts/:id
func (h *DiscountHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.DiscountRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.discounts.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "descuento no encontrado")
	}
	return c.JSON(out)
}

// Toggle PATCH /api/discounts/:id/active
func (h *DiscountHandler) Toggle(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.ToggleDiscountRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.discounts.Toggle(c.Context(), id, in.Active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/discounts/:id
func (h *DiscountHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	if err := h.discounts.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
