package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// BookHandler catálogo de libros. El listado y el detalle son públicos para la tienda.
type BookHandler struct {
	uc *usecase.BookUseCase
}

// NewBookHandler construye el handler.
func NewBookHandler(uc *usecase.BookUseCase) *BookHandler {
	return &BookHandler{uc: uc}
}

// Create godoc
// @Summary      Crear libro
// @Description  Si code está vacío se asigna el siguiente código libre de la ubicación.
// @Tags         books
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBookRequest  true  "Datos del libro"
// @Success      201   {object}  dto.BookResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBookRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener libro por ID
// @Tags         books
// @Produce      json
// @Param        id   path  int  true  "ID del libro"
// @Success      200  {object}  dto.BookResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil || (!out.Active && !entity.IsStaffRole(GetRole(c))) {
		return notFound(c, "libro no encontrado")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar libros
// @Description  La tienda solo ve libros activos; el personal ve todos.
// @Tags         books
// @Produce      json
// @Param        q            query  string  false  "Texto (título, autor, ISBN, código)"
// @Param        category_id  query  int     false  "Categoría"
// @Param        location     query  string  false  "Ubicación"
// @Param        featured     query  bool    false  "Solo destacados"
// @Param        in_stock     query  bool    false  "Solo con stock"
// @Param        limit        query  int     false  "Límite (default 20, max 100)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.BookListResponse
// @Router       /api/books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	var f dto.BookFilterRequest
	if err := c.QueryParser(&f); err != nil {
		return badRequest(c, "INVALID_PARAMS", "parámetros de consulta inválidos")
	}
	limit, offset := pagination(c)
	onlyActive := !entity.IsStaffRole(GetRole(c))
	out, err := h.uc.List(c.Context(), f, onlyActive, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Búsqueda rápida de libros (código exacto, ISBN o texto)
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  true  "Texto a buscar"
// @Success      200  {array}  dto.BookResponse
// @Router       /api/books/search [get]
func (h *BookHandler) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return badRequest(c, "VALIDATION", "q es obligatorio")
	}
	out, err := h.uc.Search(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar libro
// @Tags         books
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del libro"
// @Param        body  body  dto.UpdateBookRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.BookResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.UpdateBookRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "libro no encontrado")
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar libro
// @Tags         books
// @Security     Bearer
// @Param        id  path  int  true  "ID del libro"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Ajustar stock (delta positivo o negativo)
// @Tags         books
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID del libro"
// @Param        body  body  dto.AdjustStockRequest  true  "delta"
// @Success      200   {object}  dto.BookResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/books/{id}/stock [post]
func (h *BookHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.AdjustStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AdjustStock(c.Context(), id, in.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// NextCode godoc
// @Summary      Siguiente código libre para una ubicación
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  false  "Ubicación (vacío = almacén)"
// @Success      200  {object}  dto.NextCodeResponse
// @Router       /api/books/next-code [get]
func (h *BookHandler) NextCode(c *fiber.Ctx) error {
	loc := c.Query("location")
	code, err := h.uc.NextCode(c.Context(), loc)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NextCodeResponse{Location: loc, Code: code})
}

// RepairEncoding godoc
// @Summary      Reparar caracteres mal codificados en el catálogo
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RepairEncodingResponse
// @Router       /api/books/repair-encoding [post]
func (h *BookHandler) RepairEncoding(c *fiber.Ctx) error {
	out, err := h.uc.RepairEncoding(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
