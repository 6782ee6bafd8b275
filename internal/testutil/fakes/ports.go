package fakes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// Settings proveedor de configuración con valores fijos (por defecto los de entity.DefaultSettings).
type Settings struct {
	All entity.AllSettings
	Err error
}

func NewSettings() *Settings { return &Settings{All: entity.DefaultSettings()} }

func (s *Settings) Company(context.Context) (entity.CompanySettings, error) {
	return s.All.Company, s.Err
}

func (s *Settings) Billing(context.Context) (entity.BillingSettings, error) {
	return s.All.Billing, s.Err
}

func (s *Settings) Shipping(context.Context) (entity.ShippingSettings, error) {
	return s.All.Shipping, s.Err
}

func (s *Settings) Integrations(context.Context) (entity.IntegrationsSettings, error) {
	return s.All.Integrations, s.Err
}

// StatusEvent cambio de estado notificado.
type StatusEvent struct {
	OrderID int64
	Status  string
}

// Notifier registra las notificaciones de cambio de estado.
type Notifier struct {
	mu     sync.Mutex
	Events []StatusEvent
}

func (n *Notifier) OrderStatusChanged(_ context.Context, o *entity.Order, status string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, StatusEvent{OrderID: o.ID, Status: status})
}

// Mailer registra los emails enviados.
type Mailer struct {
	mu   sync.Mutex
	Sent []ports.MailMessage
	Err  error
}

func (m *Mailer) Send(_ context.Context, msg ports.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// Count emails enviados.
func (m *Mailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Queue cola de trabajos en memoria.
type Queue struct {
	mu      sync.Mutex
	Jobs    map[string][][]byte
	PushErr error
	// PopErr si no es nil, Pop falla de inmediato.
	PopErr error
	// Pops llamadas a Pop.
	Pops int
}

func NewQueue() *Queue { return &Queue{Jobs: map[string][][]byte{}} }

func (q *Queue) Push(_ context.Context, queue string, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.PushErr != nil {
		return q.PushErr
	}
	q.Jobs[queue] = append(q.Jobs[queue], payload)
	return nil
}

func (q *Queue) Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	q.mu.Lock()
	q.Pops++
	if q.PopErr != nil {
		q.mu.Unlock()
		return nil, q.PopErr
	}
	if jobs := q.Jobs[queue]; len(jobs) > 0 {
		q.Jobs[queue] = jobs[1:]
		q.mu.Unlock()
		return jobs[0], nil
	}
	q.mu.Unlock()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, nil
	}
}

// PopCount llamadas a Pop hasta el momento.
func (q *Queue) PopCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.Pops
}

// Len trabajos pendientes en la cola.
func (q *Queue) Len(queue string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.Jobs[queue])
}

// Idempotency almacén de claves procesadas en memoria.
type Idempotency struct {
	mu   sync.Mutex
	Keys map[string]bool
}

func NewIdempotency() *Idempotency { return &Idempotency{Keys: map[string]bool{}} }

func (s *Idempotency) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Keys[key] {
		return false, nil
	}
	s.Keys[key] = true
	return true, nil
}

func (s *Idempotency) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Keys, key)
	return nil
}

// Payments pasarela de pago simulada.
type Payments struct {
	mu      sync.Mutex
	seq     int
	Intents map[string]*ports.PaymentIntent
	// Event evento devuelto por ParseEvent; si es nil se devuelve error de firma.
	Event *ports.PaymentEvent
}

func NewPayments() *Payments { return &Payments{Intents: map[string]*ports.PaymentIntent{}} }

func (p *Payments) CreateIntent(_ context.Context, amount decimal.Decimal, metadata map[string]string) (*ports.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	id := fmt.Sprintf("pi_test_%d", p.seq)
	pi := &ports.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		Amount:       amount,
		Currency:     "eur",
		Metadata:     metadata,
	}
	p.Intents[id] = pi
	return pi, nil
}

func (p *Payments) GetIntent(_ context.Context, id string) (*ports.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pi, ok := p.Intents[id]; ok {
		return pi, nil
	}
	return nil, errors.New("payment intent no encontrado")
}

func (p *Payments) ParseEvent(_ []byte, signature string) (*ports.PaymentEvent, error) {
	if p.Event == nil || signature == "" {
		return nil, errors.New("firma de webhook inválida")
	}
	return p.Event, nil
}

// Storage almacenamiento de objetos en memoria.
type Storage struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewStorage() *Storage { return &Storage{Objects: map[string][]byte{}} }

func (s *Storage) Put(_ context.Context, key, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *Storage) PresignGet(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", key, int(expires.Seconds())), nil
}

// PDF generador que devuelve un contenido reconocible.
type PDF struct{}

func (PDF) InvoicePDF(inv *entity.Invoice, _ entity.CompanySettings, _ entity.BillingSettings) ([]byte, error) {
	return []byte("%PDF factura " + inv.Number), nil
}

func (PDF) PackingSlipPDF(o *entity.Order, _ entity.CompanySettings) ([]byte, error) {
	return []byte(fmt.Sprintf("%%PDF albaran %d", o.ID)), nil
}

// Marketplace cliente AbeBooks simulado.
type Marketplace struct {
	mu     sync.Mutex
	Pushed []ports.InventoryItem
	Orders []*entity.MarketplaceOrder
	// FailSKUs SKUs que el marketplace rechaza.
	FailSKUs map[string]bool
}

func (m *Marketplace) UpdateInventory(_ context.Context, items []ports.InventoryItem) ([]ports.InventoryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pushed = append(m.Pushed, items...)
	out := make([]ports.InventoryResult, 0, len(items))
	for _, it := range items {
		sku := it.Book.SKU()
		if m.FailSKUs[sku] {
			out = append(out, ports.InventoryResult{SKU: sku, Code: "10", Message: "ISBN inválido"})
			continue
		}
		out = append(out, ports.InventoryResult{SKU: sku, Success: true})
	}
	return out, nil
}

func (m *Marketplace) FetchNewOrders(context.Context) ([]*entity.MarketplaceOrder, error) {
	return m.Orders, nil
}

// LLM sugeridor de categorías con respuesta fija.
type LLM struct {
	Answer *dto.CategorySuggestionDTO
	Err    error
}

func (l *LLM) SuggestCategory(context.Context, string, string, string, []string) (*dto.CategorySuggestionDTO, error) {
	return l.Answer, l.Err
}

// DiscountRules proveedor de descuentos con reglas fijas.
type DiscountRules struct {
	Rules []*entity.DiscountRule
	Err   error
}

func (d *DiscountRules) ActiveRules(context.Context) ([]*entity.DiscountRule, error) {
	return d.Rules, d.Err
}

// Metadata catálogo bibliográfico en memoria indexado por ISBN normalizado.
type Metadata struct {
	Books map[string]*ports.BookMetadata
	Err   error
}

func (m *Metadata) LookupISBN(_ context.Context, isbn string) (*ports.BookMetadata, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	b, ok := m.Books[isbn]
	if !ok {
		return nil, nil
	}
	cp := *b
	cp.ISBN = isbn
	return &cp, nil
}
