// Package billing emisión y gestión de facturas a partir de pedidos.
package billing

import (
	"context"
	"errors"
	"fmt"
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

var hundred = decimal.NewFromInt(100)

// UseCase facturación.
type UseCase struct {
	invoices repository.InvoiceRepository
	orders   repository.OrderRepository
	clients  repository.ClientRepository
	settings ports.SettingsProvider
	pdf      ports.PDFGenerator
	sender   InvoiceSender
	log      *logger.Logger
	now      func() time.Time
}

// Deps dependencias del caso de uso; Clients, PDF, Sender y Logger son opcionales.
type Deps struct {
	Invoices repository.InvoiceRepository
	Orders   repository.OrderRepository
	Clients  repository.ClientRepository
	Settings ports.SettingsProvider
	PDF      ports.PDFGenerator
	Sender   InvoiceSender
	Logger   *logger.Logger
}

// NewUseCase construye el caso de uso de facturación.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		invoices: d.Invoices,
		orders:   d.Orders,
		clients:  d.Clients,
		settings: d.Settings,
		pdf:      d.PDF,
		sender:   d.Sender,
		log:      d.Logger,
		now:      time.Now,
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// FormatNumber número de factura <prefijo><año>-<secuencia de 5 dígitos>.
func FormatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s%d-%05d", prefix, year, seq)
}

// CreateFromOrder emite la factura de un pedido copiando cliente y líneas.
// Un pedido solo puede tener una factura.
func (uc *UseCase) CreateFromOrder(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	o, err := uc.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: pedido %d", domain.ErrNotFound, in.OrderID)
	}
	if len(o.Lines) == 0 {
		return nil, fmt.Errorf("%w: el pedido no tiene líneas", domain.ErrInvalidInput)
	}
	if o.Status == entity.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: no se factura un pedido cancelado", domain.ErrConflict)
	}
	existing, err := uc.invoices.GetByOrderID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el pedido %d ya tiene la factura %s", domain.ErrDuplicate, o.ID, existing.Number)
	}

	billing, err := uc.settings.Billing(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	seq, err := uc.invoices.NextSequence(ctx, billing.InvoicePrefix, now.Year())
	if err != nil {
		return nil, fmt.Errorf("secuencia de factura: %w", err)
	}

	ratePct := decimal.NewFromFloat(billing.TaxRate)
	totals := domorder.ComputeTotals(o.Lines, o.ShippingCost, ratePct.Div(hundred))
	inv := &entity.Invoice{
		Number:        FormatNumber(billing.InvoicePrefix, now.Year(), seq),
		OrderID:       o.ID,
		ClientID:      o.ClientID,
		CustomerName:  o.ClientName,
		CustomerEmail: o.ContactEmail(),
		Address:       o.ShippingAddress,
		IssueDate:     now,
		Status:        entity.InvoiceStatusPending,
		PaymentMethod: o.PaymentMethod,
		TaxRate:       ratePct,
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.Tax,
		ShippingCost:  o.ShippingCost,
		Total:         totals.Total,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.fillClient(ctx, inv); err != nil {
		return nil, err
	}
	if inv.CustomerName == "" {
		inv.CustomerName = o.UserName
	}
	for _, l := range o.Lines {
		inv.Lines = append(inv.Lines, &entity.InvoiceLine{
			BookID:      l.BookID,
			Description: l.DisplayName(),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount(),
		})
	}

	if err := uc.invoices.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: el pedido %d ya está facturado", domain.ErrDuplicate, o.ID)
		}
		return nil, err
	}
	uc.log.Info().Int64("factura_id", inv.ID).Str("numero", inv.Number).Int64("pedido_id", o.ID).Msg("factura emitida")
	return ToInvoiceResponse(inv), nil
}

func (uc *UseCase) fillClient(ctx context.Context, inv *entity.Invoice) error {
	if uc.clients == nil || inv.ClientID == "" {
		return nil
	}
	c, err := uc.clients.GetByID(ctx, inv.ClientID)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}
	inv.CustomerName = c.FullName()
	inv.CustomerNIF = c.NIF
	if c.Email != "" && inv.CustomerEmail == "" {
		inv.CustomerEmail = c.Email
	}
	if addr := c.PostalAddress(); addr != "" {
		inv.Address = addr
	}
	return nil
}

// Get factura con líneas.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

func (uc *UseCase) find(ctx context.Context, id int64) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %d", domain.ErrNotFound, id)
	}
	return inv, nil
}

// List facturas filtradas por estado ("" = todas), más recientes primero.
func (uc *UseCase) List(ctx context.Context, status string, limit, offset int) (*dto.InvoiceListResponse, error) {
	if status != "" && !entity.IsValidInvoiceStatus(status) {
		return nil, fmt.Errorf("%w: estado de factura %q", domain.ErrInvalidInput, status)
	}
	items, total, err := uc.invoices.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(items)),
		Page:  dto.NewPageResponse(limit, offset, total),
	}
	for _, inv := range items {
		out.Items = append(out.Items, *ToInvoiceResponse(inv))
	}
	return out, nil
}

// UpdateStatus cambia el estado. Una factura anulada ya no admite cambios.
func (uc *UseCase) UpdateStatus(ctx context.Context, id int64, status string) (*dto.InvoiceResponse, error) {
	if !entity.IsValidInvoiceStatus(status) {
		return nil, fmt.Errorf("%w: estado de factura %q", domain.ErrInvalidInput, status)
	}
	inv, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == entity.InvoiceStatusVoid {
		return nil, fmt.Errorf("%w: la factura %s está anulada", domain.ErrConflict, inv.Number)
	}
	if inv.Status != status {
		if err := uc.invoices.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}
		uc.log.Info().Str("numero", inv.Number).Str("de", inv.Status).Str("a", status).Msg("estado de factura actualizado")
		inv.Status = status
	}
	return ToInvoiceResponse(inv), nil
}

// ToInvoiceResponse convierte la entidad a DTO.
func ToInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		OrderID:       inv.OrderID,
		ClientID:      inv.ClientID,
		CustomerName:  inv.CustomerName,
		CustomerNIF:   inv.CustomerNIF,
		CustomerEmail: inv.CustomerEmail,
		Address:       inv.Address,
		IssueDate:     inv.IssueDate,
		Status:        inv.Status,
		PaymentMethod: inv.PaymentMethod,
		TaxRate:       inv.TaxRate,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		ShippingCost:  inv.ShippingCost,
		Total:         inv.Total,
		Notes:         inv.Notes,
		Lines:         make([]dto.InvoiceLineResponse, 0, len(inv.Lines)),
	}
	for _, l := range inv.Lines {
		out.Lines = append(out.Lines, dto.InvoiceLineResponse{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}
	return out
}
