package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
)

// PublisherHandler editoriales y búsqueda de metadatos por ISBN.
type PublisherHandler struct {
	publishers *usecase.PublisherUseCase
	isbn       *usecase.ISBNUseCase
}

func NewPublisherHandler(publishers *usecase.PublisherUseCase, isbn *usecase.ISBNUseCase) *PublisherHandler {
	return &PublisherHandler{publishers: publishers, isbn: isbn}
}

// List GET /api/publishers
func (h *PublisherHandler) List(c *fiber.Ctx) error {
	out, err := h.publishers.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar editoriales
// @Description  Coincidencia parcial sin distinguir mayúsculas, como mucho 50.
// @Tags         publishers
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  true  "Texto"
// @Success      200  {array}  dto.PublisherResponse
// @Router       /api/publishers/search [get]
func (h *PublisherHandler) Search(c *fiber.Ctx) error {
	out, err := h.publishers.Search(c.Context(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create POST /api/publishers
func (h *PublisherHandler) Create(c *fiber.Ctx) error {
	var in dto.PublisherRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.publishers.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/publishers/:id
func (h *PublisherHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.PublisherRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.publishers.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "editorial no encontrada")
	}
	return c.JSON(out)
}

// Delete DELETE /api/publishers/:id
func (h *PublisherHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	if err := h.publishers.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LookupISBN godoc
// @Summary      Metadatos de un libro por ISBN
// @Description  Consulta Google Books, OpenLibrary y la BNE. 404 si ninguna fuente lo conoce.
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        isbn  path  string  true  "ISBN-10 o ISBN-13"
// @Success      200  {object}  dto.BookMetadataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/isbn/{isbn} [get]
func (h *PublisherHandler) LookupISBN(c *fiber.Ctx) error {
	out, err := h.isbn.Lookup(c.Context(), c.Params("isbn"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "no se encontraron datos para ese ISBN")
	}
	return c.JSON(out)
}

// FindISBN godoc
// @Summary      Buscar ISBN por título y autor
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        title      query  string  true   "Título"
// @Param        author     query  string  false  "Autor"
// @Param        publisher  query  string  false  "Editorial"
// @Param        year       query  int     false  "Año"
// @Success      200  {object}  dto.BookMetadataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/isbn-search [get]
func (h *PublisherHandler) FindISBN(c *fiber.Ctx) error {
	var in dto.ISBNSearchRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "VALIDATION", "parámetros inválidos")
	}
	if err := validateStruct(&in); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.isbn.Search(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "no se encontró ningún libro")
	}
	return c.JSON(out)
}
