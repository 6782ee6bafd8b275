package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	apporder "github.com/jhoicas/libreria-api/internal/application/order"
)

// OrderHandler pedidos del back-office y "mis pedidos" de la tienda.
type OrderHandler struct {
	uc *apporder.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *apporder.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "Estado"
// @Param        type       query  string  false  "Tipo"
// @Param        client_id  query  string  false  "Cliente"
// @Param        from       query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to         query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        q          query  string  false  "Texto"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var f dto.OrderFilterRequest
	if err := c.QueryParser(&f); err != nil {
		return badRequest(c, "INVALID_PARAMS", "parámetros de consulta inválidos")
	}
	limit, offset := pagination(c)
	out, err := h.uc.List(c.Context(), f, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "pedido no encontrado")
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  Aplica el efecto sobre el stock de la transición y notifica al cliente.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID"
// @Param        body  body  dto.ChangeOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.ChangeOrderStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	o, err := h.uc.ChangeStatus(c.Context(), id, in.Status, in.Notes, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(apporder.ToOrderResponse(o))
}

// AddLine POST /api/orders/:id/lines
func (h *OrderHandler) AddLine(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.OrderLineRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddLine(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteLine DELETE /api/orders/:id/lines/:lineId
func (h *OrderHandler) DeleteLine(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	lineID, okLine := paramID(c, "lineId")
	if !ok || !okLine {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	out, err := h.uc.DeleteLine(c.Context(), id, lineID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetTracking PUT /api/orders/:id/tracking
func (h *OrderHandler) SetTracking(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.SetTrackingRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetTracking(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PackingSlip godoc
// @Summary      Albarán en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/packing-slip [get]
func (h *OrderHandler) PackingSlip(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	pdf, err := h.uc.PackingSlip(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, pdf, "application/pdf", "albaran-"+strconv.FormatInt(id, 10)+".pdf")
}

// Stats GET /api/orders/stats
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TopSelling GET /api/orders/top-selling
func (h *OrderHandler) TopSelling(c *fiber.Ctx) error {
	out, err := h.uc.TopSelling(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PendingCount GET /api/orders/pending-count
func (h *OrderHandler) PendingCount(c *fiber.Ctx) error {
	n, err := h.uc.PendingCount(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// StatusOptions GET /api/orders/status-options?type=
func (h *OrderHandler) StatusOptions(c *fiber.Ctx) error {
	return c.JSON(h.uc.StatusOptions(c.Query("type")))
}

// MyOrders GET /api/shop/orders
// Pedidos del usuario autenticado.
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.ListForUser(c.Context(), GetUserID(c), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MyOrder GET /api/shop/orders/:id
func (h *OrderHandler) MyOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	out, err := h.uc.GetForUser(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "pedido no encontrado")
	}
	return c.JSON(out)
}

// sendAttachment responde con un fichero descargable.
func sendAttachment(c *fiber.Ctx, data []byte, contentType, filename string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
