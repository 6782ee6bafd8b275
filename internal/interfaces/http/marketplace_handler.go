package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/importer"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// MarketplaceHandler importación de pedidos pegados y sincronización con AbeBooks.
type MarketplaceHandler struct {
	importer *importer.UseCase
	abebooks *usecase.AbeBooksUseCase
}

// NewMarketplaceHandler construye el handler. abebooks puede ser nil si la integración no está configurada.
func NewMarketplaceHandler(imp *importer.UseCase, abebooks *usecase.AbeBooksUseCase) *MarketplaceHandler {
	return &MarketplaceHandler{importer: imp, abebooks: abebooks}
}

// PreviewImport godoc
// @Summary      Analizar pedido pegado desde un marketplace
// @Description  Devuelve el borrador (cliente, dirección, líneas resueltas contra el catálogo) sin guardar nada.
// @Tags         import
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportRequest  true  "source y text"
// @Success      200   {array}  dto.ImportPreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/preview [post]
func (h *MarketplaceHandler) PreviewImport(c *fiber.Ctx) error {
	var in dto.ImportRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.importer.Preview(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Crear pedidos a partir del texto pegado
// @Tags         import
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportRequest  true  "source y text"
// @Success      201   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import [post]
func (h *MarketplaceHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.importer.Import(c.Context(), in, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PushAll POST /api/abebooks/inventory/sync
// Sube todo el catálogo exportable a AbeBooks.
func (h *MarketplaceHandler) PushAll(c *fiber.Ctx) error {
	out, err := h.abebooks.PushAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SyncBook POST /api/abebooks/books/:id/sync
func (h *MarketplaceHandler) SyncBook(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	out, err := h.abebooks.SyncBook(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

type syncStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// SyncStock POST /api/abebooks/books/:id/stock
func (h *MarketplaceHandler) SyncStock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in syncStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.abebooks.SyncStock(c.Context(), id, in.Stock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SyncOrders POST /api/abebooks/orders/sync
// Descarga los pedidos nuevos de AbeBooks a la caché local.
func (h *MarketplaceHandler) SyncOrders(c *fiber.Ctx) error {
	out, err := h.abebooks.SyncOrders(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListOrders godoc
// @Summary      Pedidos AbeBooks en caché
// @Tags         abebooks
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {array}  dto.MarketplaceOrderResponse
// @Router       /api/abebooks/orders [get]
func (h *MarketplaceHandler) ListOrders(c *fiber.Ctx) error {
	f := entity.MarketplaceOrderFilter{Status: c.Query("status")}
	var err error
	if f.From, err = parseDay(c.Query("from")); err != nil {
		return badRequest(c, "VALIDATION", "from debe tener formato YYYY-MM-DD")
	}
	if f.To, err = parseDay(c.Query("to")); err != nil {
		return badRequest(c, "VALIDATION", "to debe tener formato YYYY-MM-DD")
	}
	out, err := h.abebooks.ListCachedOrders(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetOrder GET /api/abebooks/orders/:externalId
func (h *MarketplaceHandler) GetOrder(c *fiber.Ctx) error {
	out, err := h.abebooks.GetCachedOrder(c.Context(), c.Params("externalId"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "pedido AbeBooks no encontrado")
	}
	return c.JSON(out)
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
