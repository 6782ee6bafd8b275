package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// CategoryHandler categorías y ubicaciones del catálogo.
type CategoryHandler struct {
	categories *usecase.CategoryUseCase
	locations  *usecase.LocationUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(categories *usecase.CategoryUseCase, locations *usecase.LocationUseCase) *CategoryHandler {
	return &CategoryHandler{categories: categories, locations: locations}
}

// ListCategories godoc
// @Summary      Listar categorías
// @Description  La tienda solo ve las activas.
// @Tags         categories
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.categories.List(c.Context(), !entity.IsStaffRole(GetRole(c)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetCategory godoc
// @Summary      Obtener categoría
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	out, err := h.categories.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "categoría no encontrada")
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Datos"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.categories.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCategory godoc
// @Summary      Editar categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "ID"
// @Param        body  body  dto.CategoryRequest  true  "Datos"
// @Success      200   {object}  dto.CategoryResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.CategoryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.categories.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "categoría no encontrada")
	}
	return c.JSON(out)
}

// DeleteCategory godoc
// @Summary      Eliminar categoría sin libros
// @Tags         categories
// @Security     Bearer
// @Param        id  path  int  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	if err := h.categories.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MergeCategories godoc
// @Summary      Fusionar categorías
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MergeCategoriesRequest  true  "from, into"
// @Success      200   {object}  dto.MergeCategoriesResponse
// @Router       /api/categories/merge [post]
func (h *CategoryHandler) MergeCategories(c *fiber.Ctx) error {
	var in dto.MergeCategoriesRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.categories.Merge(c.Context(), in.From, in.Into)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Solo activas"
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *CategoryHandler) ListLocations(c *fiber.Ctx) error {
	out, err := h.locations.List(c.Context(), c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateLocation godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LocationRequest  true  "Datos"
// @Success      201   {object}  dto.LocationResponse
// @Router       /api/locations [post]
func (h *CategoryHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.LocationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.locations.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLocation godoc
// @Summary      Editar ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "ID"
// @Param        body  body  dto.LocationRequest  true  "Datos"
// @Success      200   {object}  dto.LocationResponse
// @Router       /api/locations/{id} [put]
func (h *CategoryHandler) UpdateLocation(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.LocationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.locations.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "ubicación no encontrada")
	}
	return c.JSON(out)
}

// DeleteLocation godoc
// @Summary      Eliminar ubicación
// @Tags         locations
// @Security     Bearer
// @Param        id  path  int  true  "ID"
// @Success      204
// @Router       /api/locations/{id} [delete]
func (h *CategoryHandler) DeleteLocation(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	if err := h.locations.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
