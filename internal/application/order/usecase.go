// Package order casos de uso de pedidos: alta, líneas, cambios de estado con
// efectos de stock y consultas del back-office.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	domorder "github.com/jhoicas/libreria-api/internal/domain/order"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/pkg/logger"
)

// Número de productos del ranking de más vendidos.
const TopSellingLimit = 5

// UseCase gestión de pedidos.
type UseCase struct {
	tx       TxRunner
	orders   repository.OrderRepository
	books    repository.BookRepository
	clients  repository.ClientRepository
	settings ports.SettingsProvider
	pdf      ports.PDFGenerator
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

// Deps dependencias del caso de uso; PDF, Notifier y Logger son opcionales.
type Deps struct {
	Tx       TxRunner
	Orders   repository.OrderRepository
	Books    repository.BookRepository
	Clients  repository.ClientRepository
	Settings ports.SettingsProvider
	PDF      ports.PDFGenerator
	Notifier Notifier
	Logger   *logger.Logger
}

// NewUseCase construye el caso de uso de pedidos.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		tx:       d.Tx,
		orders:   d.Orders,
		books:    d.Books,
		clients:  d.Clients,
		settings: d.Settings,
		pdf:      d.PDF,
		notifier: d.Notifier,
		log:      d.Logger,
		now:      time.Now,
	}
	if uc.notifier == nil {
		uc.notifier = nopNotifier{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// NewOrder datos para crear un pedido desde otros casos de uso (importación, checkout).
type NewOrder struct {
	UserID          string
	ClientID        string
	Type            string
	Status          string // vacío = estado inicial del tipo
	PaymentMethod   string
	ShippingAddress string
	ShippingCost    decimal.Decimal
	Deposit         decimal.Decimal
	Carrier         string
	TrackingNumber  string
	Notes           string
	ExternalRef     string
	Lines           []*entity.OrderLine
}

// TaxRate IVA configurado como fracción (21 -> 0.21).
func (uc *UseCase) TaxRate(ctx context.Context) decimal.Decimal {
	if uc.settings == nil {
		return domorder.DefaultTaxRate
	}
	b, err := uc.settings.Billing(ctx)
	if err != nil || b.TaxRate <= 0 {
		return domorder.DefaultTaxRate
	}
	return decimal.NewFromFloat(b.TaxRate).Div(decimal.NewFromInt(100))
}

// Create alta de pedido desde el back-office.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateOrderRequest, actorID string) (*dto.OrderResponse, error) {
	lines, err := uc.ResolveLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	o, err := uc.CreateOrder(ctx, NewOrder{
		ClientID:        in.ClientID,
		Type:            in.Type,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		ShippingCost:    in.ShippingCost,
		Deposit:         in.Deposit,
		Carrier:         strings.TrimSpace(in.Carrier),
		TrackingNumber:  strings.TrimSpace(in.TrackingNumber),
		Notes:           in.Notes,
		ExternalRef:     strings.TrimSpace(in.ExternalRef),
		Lines:           lines,
	}, actorID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// ResolveLines convierte las líneas de la petición: las internas toman el precio del libro
// si no se indica otro, las externas requieren nombre.
func (uc *UseCase) ResolveLines(ctx context.Context, in []dto.OrderLineRequest) ([]*entity.OrderLine, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el pedido no tiene líneas", domain.ErrInvalidInput)
	}
	ids := make([]int64, 0, len(in))
	for _, l := range in {
		if l.BookID != nil {
			ids = append(ids, *l.BookID)
		}
	}
	books := map[int64]*entity.Book{}
	if len(ids) > 0 {
		var err error
		if books, err = uc.books.GetByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}
	out := make([]*entity.OrderLine, 0, len(in))
	for _, l := range in {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: la cantidad debe ser al menos 1", domain.ErrInvalidInput)
		}
		line := &entity.OrderLine{Quantity: l.Quantity}
		if l.BookID != nil {
			b, ok := books[*l.BookID]
			if !ok {
				return nil, fmt.Errorf("%w: el libro %d no existe", domain.ErrInvalidInput, *l.BookID)
			}
			id := b.ID
			line.BookID = &id
			line.BookTitle = b.Title
			line.BookCode = b.Code
			line.UnitPrice = b.Price
		} else {
			name := strings.TrimSpace(l.ExternalName)
			if name == "" {
				return nil, fmt.Errorf("%w: una línea externa necesita nombre", domain.ErrInvalidInput)
			}
			line.ExternalName = name
			line.ExternalURL = strings.TrimSpace(l.ExternalURL)
		}
		if l.UnitPrice != nil {
			line.UnitPrice = *l.UnitPrice
		}
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
		}
		out = append(out, line)
	}
	return out, nil
}

// CreateOrder valida, calcula totales y persiste el pedido con sus líneas.
func (uc *UseCase) CreateOrder(ctx context.Context, in NewOrder, actorID string) (*entity.Order, error) {
	o, err := uc.Build(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := uc.CreateOrders(ctx, []*entity.Order{o}, actorID); err != nil {
		return nil, err
	}
	return o, nil
}

// CreateOrders persiste pedidos ya construidos con Build en una sola transacción:
// si uno falla no se guarda ninguno.
func (uc *UseCase) CreateOrders(ctx context.Context, list []*entity.Order, actorID string) error {
	err := uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, _ repository.StockRepository, audit repository.AuditRepository) error {
		for _, o := range list {
			if err := orders.Create(ctx, o); err != nil {
				return err
			}
			if err := audit.Insert(ctx, &entity.AuditEntry{
				Table:     "pedidos",
				RecordID:  fmt.Sprint(o.ID),
				Action:    "INSERT",
				NewValue:  map[string]interface{}{"estado": o.Status, "tipo": o.Type, "total": o.Total.StringFixed(2)},
				UserID:    actorID,
				CreatedAt: uc.now(),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for _, o := range list {
			o.ID = 0
		}
		return err
	}
	// Los pedidos web avisan desde el checkout con el pedido ya completo.
	for _, o := range list {
		if o.Type != entity.OrderTypeInternal {
			uc.notifier.OrderStatusChanged(ctx, o, o.Status)
		}
	}
	return nil
}

// ExternalRefExists indica si la referencia de marketplace ya se importó para ese tipo de pedido.
func (uc *UseCase) ExternalRefExists(ctx context.Context, orderType, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}
	return uc.orders.ExistsExternalRef(ctx, orderType, ref)
}

// Build valida los datos y construye el pedido con sus totales sin persistirlo.
func (uc *UseCase) Build(ctx context.Context, in NewOrder) (*entity.Order, error) {
	t := in.Type
	if t == "" {
		t = entity.OrderTypeInternal
	}
	if !domorder.IsValidType(t) {
		return nil, fmt.Errorf("%w: tipo de pedido %q", domain.ErrInvalidInput, t)
	}
	pm := in.PaymentMethod
	if pm == "" {
		pm = entity.PaymentCard
	}
	if !domorder.IsValidPaymentMethod(pm) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, pm)
	}
	status := in.Status
	if status == "" {
		status = domorder.InitialStatus(t)
	}
	if !domorder.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: el pedido no tiene líneas", domain.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: la cantidad debe ser al menos 1", domain.ErrInvalidInput)
		}
	}
	if in.ShippingCost.IsNegative() {
		return nil, fmt.Errorf("%w: gastos de envío negativos", domain.ErrInvalidInput)
	}
	o := &entity.Order{
		UserID:          in.UserID,
		ClientID:        in.ClientID,
		Type:            t,
		Status:          status,
		PaymentMethod:   pm,
		ShippingAddress: in.ShippingAddress,
		ShippingCost:    in.ShippingCost.Round(2),
		Deposit:         in.Deposit.Round(2),
		Carrier:         in.Carrier,
		TrackingNumber:  in.TrackingNumber,
		Notes:           in.Notes,
		ExternalRef:     in.ExternalRef,
		Lines:           in.Lines,
	}
	if in.ClientID != "" && uc.clients != nil {
		c, err := uc.clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: el cliente no existe", domain.ErrInvalidInput)
		}
		o.ClientName = c.FullName()
		o.ClientEmail = c.Email
		o.ClientPhone = c.ContactPhone()
	}
	domorder.ComputeTotals(o.Lines, o.ShippingCost, uc.TaxRate(ctx)).Apply(o)
	if o.Deposit.IsNegative() || o.Deposit.GreaterThan(o.Total) {
		return nil, fmt.Errorf("%w: la señal debe estar entre 0 y el total", domain.ErrInvalidInput)
	}
	now := uc.now()
	o.OrderDate, o.CreatedAt, o.UpdatedAt = now, now, now
	return o, nil
}

// Get pedido con líneas. (nil, nil) si no existe.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// GetForUser pedido de un usuario de la tienda; un pedido ajeno se trata como inexistente.
func (uc *UseCase) GetForUser(ctx context.Context, userID string, id int64) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, nil
	}
	return ToOrderResponse(o), nil
}

// List pedidos filtrados.
func (uc *UseCase) List(ctx context.Context, in dto.OrderFilterRequest, limit, offset int) (*dto.OrderListResponse, error) {
	f := entity.OrderFilter{
		Status:   in.Status,
		Type:     in.Type,
		ClientID: in.ClientID,
		Query:    strings.TrimSpace(in.Query),
		Limit:    limit,
		Offset:   offset,
	}
	var err error
	if f.From, err = parseDay(in.From, false); err != nil {
		return nil, err
	}
	if f.To, err = parseDay(in.To, true); err != nil {
		return nil, err
	}
	return uc.list(ctx, f)
}

// ListForUser pedidos del usuario de la tienda.
func (uc *UseCase) ListForUser(ctx context.Context, userID string, limit, offset int) (*dto.OrderListResponse, error) {
	return uc.list(ctx, entity.OrderFilter{UserID: userID, Limit: limit, Offset: offset})
}

func (uc *UseCase) list(ctx context.Context, f entity.OrderFilter) (*dto.OrderListResponse, error) {
	list, total, err := uc.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{Items: items, Page: dto.NewPageResponse(f.Limit, f.Offset, total)}, nil
}

// parseDay fecha YYYY-MM-DD; endOfDay la lleva al último instante del día.
func parseDay(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (use YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// SetTracking guarda transportista y número de seguimiento.
func (uc *UseCase) SetTracking(ctx context.Context, id int64, in dto.SetTrackingRequest) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	if err := uc.orders.UpdateShipping(ctx, id, strings.TrimSpace(in.Carrier), strings.TrimSpace(in.TrackingNumber)); err != nil {
		return nil, err
	}
	o.Carrier = strings.TrimSpace(in.Carrier)
	o.TrackingNumber = strings.TrimSpace(in.TrackingNumber)
	return ToOrderResponse(o), nil
}

// Stats conteo por estado, ventas totales y pedidos pendientes.
func (uc *UseCase) Stats(ctx context.Context) (*dto.OrderStatsResponse, error) {
	s, err := uc.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := uc.PendingCount(ctx)
	if err != nil {
		return nil, err
	}
	by := s.ByStatus
	if by == nil {
		by = map[string]int{}
	}
	return &dto.OrderStatsResponse{Total: s.Total, ByStatus: by, TotalSales: s.TotalSales, PendingCount: pending}, nil
}

// TopSelling productos más vendidos por unidades.
func (uc *UseCase) TopSelling(ctx context.Context) ([]dto.TopSellingDTO, error) {
	items, err := uc.orders.TopSelling(ctx, TopSellingLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopSellingDTO, 0, len(items))
	for _, it := range items {
		name := it.Name
		if name == "" {
			name = "Producto desconocido"
		}
		out = append(out, dto.TopSellingDTO{Name: name, Quantity: it.Quantity})
	}
	return out, nil
}

// PendingCount pedidos en pendiente o procesando.
func (uc *UseCase) PendingCount(ctx context.Context) (int, error) {
	return uc.orders.CountByStatus(ctx, entity.OrderStatusPending, entity.OrderStatusProcessing)
}

// StatusOptions estados seleccionables para el tipo de pedido.
func (uc *UseCase) StatusOptions(orderType string) []dto.StatusOptionDTO {
	list := domorder.SelectableStatuses(orderType)
	out := make([]dto.StatusOptionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StatusOptionDTO{Value: s, Label: domorder.Label(s)})
	}
	return out
}

// PackingSlip albarán del pedido en PDF.
func (uc *UseCase) PackingSlip(ctx context.Context, id int64) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("order: generador PDF no configurado")
	}
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	company := entity.DefaultSettings().Company
	if uc.settings != nil {
		if c, err := uc.settings.Company(ctx); err == nil {
			company = c
		}
	}
	return uc.pdf.PackingSlipPDF(o, company)
}

// ToOrderResponse mapea el pedido a su DTO con estado mostrado y siguientes estados posibles.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	display := domorder.DisplayStatus(o.Type, o.Status)
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:          l.ID,
			BookID:      l.BookID,
			BookCode:    l.BookCode,
			Name:        l.DisplayName(),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount(),
			External:    l.IsExternal(),
			ExternalURL: l.ExternalURL,
		})
	}
	next := []string{}
	for _, s := range domorder.AllStatuses {
		if domorder.CanTransition(o.Type, o.Status, s) {
			next = append(next, s)
		}
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		Type:            o.Type,
		Status:          o.Status,
		DisplayStatus:   display,
		StatusLabel:     domorder.Label(display),
		PaymentMethod:   o.PaymentMethod,
		ClientID:        o.ClientID,
		ClientName:      o.ClientName,
		ClientEmail:     o.ContactEmail(),
		UserID:          o.UserID,
		ShippingAddress: o.ShippingAddress,
		Carrier:         o.Carrier,
		TrackingNumber:  o.TrackingNumber,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		ShippingCost:    o.ShippingCost,
		Total:           o.Total,
		Deposit:         o.Deposit,
		PendingAmount:   o.PendingAmount(),
		Notes:           o.Notes,
		ExternalRef:     o.ExternalRef,
		OrderDate:       o.OrderDate,
		Lines:           lines,
		NextStatuses:    next,
	}
}
