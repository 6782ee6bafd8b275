package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/export"
)

// ExportHandler descargas CSV/ZIP, feeds de marketplaces y copia de seguridad.
// Con ?upload=true el fichero se sube al almacenamiento y se devuelve una URL firmada.
type ExportHandler struct {
	uc *export.UseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Entity godoc
// @Summary      Exportar una entidad a CSV
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Param        entity  path   string  true   "libros, categorias, clientes, pedidos, facturas, ubicaciones"
// @Param        upload  query  bool    false  "Subir al almacenamiento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/export/entity/{entity} [get]
func (h *ExportHandler) Entity(c *fiber.Ctx) error {
	f, err := h.uc.Entity(c.Context(), c.Params("entity"))
	if err != nil {
		return writeError(c, err)
	}
	return h.deliver(c, f, nil)
}

// Backup godoc
// @Summary      Copia completa en ZIP (un CSV por entidad)
// @Tags         export
// @Security     Bearer
// @Produce      application/zip
// @Param        upload  query  bool  false  "Subir al almacenamiento"
// @Success      200  {file}  binary
// @Router       /api/export/backup [get]
func (h *ExportHandler) Backup(c *fiber.Ctx) error {
	f, err := h.uc.Backup(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return h.deliver(c, f, nil)
}

// Uniliber godoc
// @Summary      Feed Uniliber (ZIP con uniliber.txt y errores)
// @Tags         export
// @Security     Bearer
// @Produce      application/zip
// @Param        upload  query  bool  false  "Subir al almacenamiento"
// @Success      200  {file}  binary
// @Router       /api/export/uniliber [get]
func (h *ExportHandler) Uniliber(c *fiber.Ctx) error {
	f, stats, err := h.uc.Uniliber(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return h.deliver(c, f, stats)
}

// AbeBooks godoc
// @Summary      Feed de inventario AbeBooks
// @Tags         export
// @Security     Bearer
// @Param        upload  query  bool  false  "Subir al almacenamiento"
// @Success      200  {file}  binary
// @Router       /api/export/abebooks [get]
func (h *ExportHandler) AbeBooks(c *fiber.Ctx) error {
	f, stats, err := h.uc.AbeBooks(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return h.deliver(c, f, stats)
}

// IberLibro GET /api/export/iberlibro
func (h *ExportHandler) IberLibro(c *fiber.Ctx) error {
	f, err := h.uc.IberLibro(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return h.deliver(c, f, nil)
}

// PublishAbeBooksFeed POST /api/export/abebooks/publish
// Genera el feed y lo publica en el almacenamiento.
func (h *ExportHandler) PublishAbeBooksFeed(c *fiber.Ctx) error {
	out, err := h.uc.PublishAbeBooksFeed(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *ExportHandler) deliver(c *fiber.Ctx, f *export.File, stats *dto.ExportStats) error {
	if c.QueryBool("upload", false) {
		out, err := h.uc.Upload(c.Context(), f, stats)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
	return sendAttachment(c, f.Data, f.ContentType, f.Name)
}
