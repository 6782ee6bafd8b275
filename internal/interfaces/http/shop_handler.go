package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/libreria-api/internal/application/checkout"
	"github.com/jhoicas/libreria-api/internal/application/dto"
)

// ShopHandler carrito, checkout y pago de la tienda web.
type ShopHandler struct {
	uc *checkout.UseCase
}

// NewShopHandler construye el handler.
func NewShopHandler(uc *checkout.UseCase) *ShopHandler {
	return &ShopHandler{uc: uc}
}

// GetCart godoc
// @Summary      Carrito del usuario
// @Tags         shop
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/shop/cart [get]
func (h *ShopHandler) GetCart(c *fiber.Ctx) error {
	out, err := h.uc.GetCart(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReplaceCart godoc
// @Summary      Sustituir el carrito
// @Description  Las líneas con libro inexistente o cantidad no positiva se descartan.
// @Tags         shop
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReplaceCartRequest  true  "Líneas"
// @Success      200   {object}  dto.CartResponse
// @Router       /api/shop/cart [put]
func (h *ShopHandler) ReplaceCart(c *fiber.Ctx) error {
	var in dto.ReplaceCartRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.ReplaceCart(c.Context(), GetUserID(c), in.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PlaceOrder godoc
// @Summary      Confirmar pedido desde el carrito
// @Tags         shop
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "Envío y pago"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shop/checkout [post]
func (h *ShopHandler) PlaceOrder(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.PlaceOrder(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreatePaymentIntent godoc
// @Summary      Iniciar pago con tarjeta de un pedido propio
// @Tags         shop
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentIntentRequest  true  "order_id"
// @Success      200   {object}  dto.PaymentIntentResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shop/payments/intent [post]
func (h *ShopHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	var in dto.PaymentIntentRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreatePaymentIntent(c.Context(), GetUserID(c), in.OrderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PaymentStatus GET /api/shop/payments/:intentId
func (h *ShopHandler) PaymentStatus(c *fiber.Ctx) error {
	out, err := h.uc.PaymentStatus(c.Context(), GetUserID(c), c.Params("intentId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Webhook godoc
// @Summary      Webhook de la pasarela de pago
// @Description  Verifica la firma Stripe-Signature; cada evento se procesa una sola vez.
// @Tags         shop
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/payments/webhook [post]
func (h *ShopHandler) Webhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)
	if err := h.uc.HandleWebhook(c.Context(), payload, c.Get("Stripe-Signature")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"received": true})
}
