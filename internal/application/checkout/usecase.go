// Package checkout carrito de la tienda web, alta de pedidos desde el carrito y
// pago con tarjeta (payment intents y webhook de la pasarela).
package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	apporder "github.com/jhoicas/libreria-api/internal/application/order"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	domorder "github.com/jhoicas/libreria-api/internal/domain/order"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/pkg/logger"
)

// Tiempo durante el que se recuerda un evento de webhook ya procesado.
const webhookIdempotencyTTL = 72 * time.Hour

// UseCase checkout de la tienda web.
type UseCase struct {
	tx          TxRunner
	cart        repository.CartRepository
	books       repository.BookRepository
	orders      repository.OrderRepository
	orderUC     *apporder.UseCase
	settings    ports.SettingsProvider
	gateway     ports.PaymentGateway
	idempotency ports.IdempotencyStore
	notifier    apporder.Notifier
	discounts   ports.DiscountProvider
	log         *logger.Logger
}

// Deps dependencias del checkout. Gateway e Idempotency son opcionales (pago desactivado);
// sin Discounts se cobra el precio de catálogo.
type Deps struct {
	Tx          TxRunner
	Cart        repository.CartRepository
	Books       repository.BookRepository
	Orders      repository.OrderRepository
	OrderUC     *apporder.UseCase
	Settings    ports.SettingsProvider
	Gateway     ports.PaymentGateway
	Idempotency ports.IdempotencyStore
	Notifier    apporder.Notifier
	Discounts   ports.DiscountProvider
	Logger      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		tx:          d.Tx,
		cart:        d.Cart,
		books:       d.Books,
		orders:      d.Orders,
		orderUC:     d.OrderUC,
		settings:    d.Settings,
		gateway:     d.Gateway,
		idempotency: d.Idempotency,
		notifier:    d.Notifier,
		discounts:   d.Discounts,
		log:         d.Logger,
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// PlaceOrder crea un pedido web en pending_verification con el contenido del carrito
// y lo vacía en la misma transacción. Si el carrito tiene libros retirados del
// catálogo el pedido se rechaza y el carrito queda intacto. Cada línea se cobra al
// precio de venta con el mejor descuento vigente.
func (uc *UseCase) PlaceOrder(ctx context.Context, userID string, in dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	shipping, err := uc.settings.Shipping(ctx)
	if err != nil {
		return nil, err
	}
	zone := strings.TrimSpace(in.Zone)
	if zone != "" && domorder.ShippingZone(in.Country) == domorder.ZoneNational && !domorder.IsNationalZone(zone, shipping) {
		return nil, fmt.Errorf("%w: zona de envío %q", domain.ErrInvalidInput, zone)
	}
	address := strings.TrimSpace(in.ShippingAddress)
	if zone != "" {
		address += " (" + zone + ")"
	}
	if c := strings.TrimSpace(in.Country); c != "" {
		address += ", " + c
	}
	prices, err := uc.salePrices(ctx)
	if err != nil {
		return nil, err
	}
	var created *entity.Order
	var quote domorder.ShippingQuote
	err = uc.tx.RunCheckout(ctx, func(orders repository.OrderRepository, stock repository.StockRepository, cart repository.CartRepository, audit repository.AuditRepository) error {
		items, err := cart.List(ctx, userID)
		if err != nil {
			return err
		}
		var unavailable []string
		for _, it := range items {
			if it.Book == nil {
				unavailable = append(unavailable, fmt.Sprintf("libro %d", it.BookID))
			} else if !it.Book.Active {
				unavailable = append(unavailable, it.Book.Title)
			}
		}
		if len(unavailable) > 0 {
			return fmt.Errorf("%w: ya no están disponibles: %s", domain.ErrInvalidInput, strings.Join(unavailable, ", "))
		}
		lines := make([]*entity.OrderLine, 0, len(items))
		itemsTotal := decimal.Zero
		for _, it := range items {
			available, err := stock.GetStockForUpdate(ctx, it.BookID)
			if err != nil {
				return err
			}
			if available < it.Quantity {
				return fmt.Errorf("%w: %s (disponible %d)", domain.ErrInsufficientStock, it.Book.Title, available)
			}
			id := it.BookID
			line := &entity.OrderLine{
				BookID:    &id,
				Quantity:  it.Quantity,
				UnitPrice: prices.of(it.Book),
				BookTitle: it.Book.Title,
				BookCode:  it.Book.Code,
			}
			lines = append(lines, line)
			itemsTotal = itemsTotal.Add(line.Amount())
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: el carrito está vacío", domain.ErrInvalidInput)
		}
		quote = domorder.QuoteShipping(itemsTotal, in.Country, in.ShippingMethod == "express", shipping)
		o, err := uc.orderUC.Build(ctx, apporder.NewOrder{
			UserID:          userID,
			Type:            entity.OrderTypeInternal,
			PaymentMethod:   in.PaymentMethod,
			ShippingAddress: address,
			ShippingCost:    quote.Cost,
			Notes:           in.Notes,
			Lines:           lines,
		})
		if err != nil {
			return err
		}
		if err := orders.Create(ctx, o); err != nil {
			return err
		}
		if err := audit.Insert(ctx, &entity.AuditEntry{
			Table:     "pedidos",
			RecordID:  fmt.Sprint(o.ID),
			Action:    "INSERT",
			NewValue:  map[string]interface{}{"estado": o.Status, "tipo": o.Type, "total": o.Total.StringFixed(2), "zona_envio": quote.Zone},
			UserID:    userID,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		created = o
		return cart.Clear(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("pedido_id", created.ID).Str("usuario", userID).Str("zona_envio", quote.Zone).Msg("pedido web creado")
	if uc.notifier != nil {
		// UserEmail se resuelve por join en lecturas posteriores.
		if full, err := uc.orders.GetByID(ctx, created.ID); err == nil && full != nil {
			uc.notifier.OrderStatusChanged(ctx, full, full.Status)
		}
	}
	return apporder.ToOrderResponse(created), nil
}

// CreatePaymentIntent inicia el pago con tarjeta de un pedido propio en payment_pending.
// El importe es lo pendiente de pago (total menos señal).
func (uc *UseCase) CreatePaymentIntent(ctx context.Context, userID string, orderID int64) (*dto.PaymentIntentResponse, error) {
	if uc.gateway == nil {
		return nil, fmt.Errorf("%w: pagos con tarjeta no configurados", domain.ErrPaymentFailed)
	}
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if o.Status != entity.OrderStatusPaymentPending {
		return nil, fmt.Errorf("%w: el pedido está %s", domain.ErrConflict, domorder.Label(o.Status))
	}
	amount := o.PendingAmount()
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: el pedido no tiene importe pendiente", domain.ErrInvalidInput)
	}
	pi, err := uc.gateway.CreateIntent(ctx, amount, map[string]string{
		"order_id": strconv.FormatInt(o.ID, 10),
		"user_id":  userID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	if err := uc.orders.SetPaymentIntent(ctx, o.ID, pi.ID); err != nil {
		return nil, err
	}
	return &dto.PaymentIntentResponse{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		Amount:          amount,
		Currency:        pi.Currency,
	}, nil
}

// PaymentStatus estado de un payment intent del usuario.
func (uc *UseCase) PaymentStatus(ctx context.Context, userID, intentID string) (*dto.PaymentStatusResponse, error) {
	if uc.gateway == nil {
		return nil, fmt.Errorf("%w: pagos con tarjeta no configurados", domain.ErrPaymentFailed)
	}
	pi, err := uc.gateway.GetIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	if pi.Metadata["user_id"] != userID {
		return nil, domain.ErrNotFound
	}
	return &dto.PaymentStatusResponse{PaymentIntentID: pi.ID, Status: pi.Status}, nil
}

// HandleWebhook verifica y procesa un evento de la pasarela. Cada evento se procesa una
// sola vez; si el procesamiento falla la clave se libera para que la pasarela reintente.
func (uc *UseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if uc.gateway == nil {
		return fmt.Errorf("%w: pagos con tarjeta no configurados", domain.ErrPaymentFailed)
	}
	ev, err := uc.gateway.ParseEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return uc.HandlePaymentEvent(ctx, ev)
}

// HandlePaymentEvent aplica un evento ya verificado.
func (uc *UseCase) HandlePaymentEvent(ctx context.Context, ev *ports.PaymentEvent) error {
	if ev.Type != ports.EventPaymentSucceeded && ev.Type != ports.EventPaymentFailed {
		uc.log.Debug().Str("evento", ev.Type).Msg("evento de pago ignorado")
		return nil
	}
	key := "stripe:event:" + ev.ID
	if uc.idempotency != nil {
		fresh, err := uc.idempotency.Claim(ctx, key, webhookIdempotencyTTL)
		if err != nil {
			return err
		}
		if !fresh {
			uc.log.Info().Str("evento_id", ev.ID).Msg("evento de pago ya procesado")
			return nil
		}
	}
	if err := uc.applyPaymentEvent(ctx, ev); err != nil {
		if uc.idempotency != nil {
			_ = uc.idempotency.Release(ctx, key)
		}
		return err
	}
	return nil
}

func (uc *UseCase) applyPaymentEvent(ctx context.Context, ev *ports.PaymentEvent) error {
	if ev.Intent == nil {
		return fmt.Errorf("%w: evento sin payment intent", domain.ErrInvalidInput)
	}
	o, err := uc.resolveOrder(ctx, ev.Intent)
	if err != nil {
		return err
	}
	if o == nil {
		uc.log.Warn().Str("payment_intent", ev.Intent.ID).Msg("pedido no encontrado para el pago")
		return nil
	}
	switch ev.Type {
	case ports.EventPaymentSucceeded:
		if o.Status != entity.OrderStatusPaymentPending {
			uc.log.Info().Int64("pedido_id", o.ID).Str("estado", o.Status).Msg("pago confirmado para pedido fuera de payment_pending")
			return nil
		}
		if err := uc.orders.SetPaymentIntent(ctx, o.ID, ev.Intent.ID); err != nil {
			return err
		}
		_, err = uc.orderUC.ChangeStatus(ctx, o.ID, entity.OrderStatusProcessing, "", "")
		return err
	case ports.EventPaymentFailed:
		if o.Status != entity.OrderStatusPaymentPending {
			return nil
		}
		msg := ev.Intent.LastError
		if msg == "" {
			msg = "sin detalle"
		}
		_, err = uc.orderUC.ChangeStatus(ctx, o.ID, entity.OrderStatusCancelled, "Pago fallido: "+msg, "")
		return err
	}
	return nil
}

// resolveOrder busca el pedido por metadata.order_id y, si falta, por el intent guardado.
func (uc *UseCase) resolveOrder(ctx context.Context, pi *ports.PaymentIntent) (*entity.Order, error) {
	if raw := pi.Metadata["order_id"]; raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			o, err := uc.orders.GetByID(ctx, id)
			if err != nil || o != nil {
				return o, err
			}
		}
	}
	return uc.orders.GetByPaymentIntent(ctx, pi.ID)
}
