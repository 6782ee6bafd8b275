// Package notification encola y envía los correos a clientes: avisos de
// cambio de estado de pedido y envío de facturas.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/pkg/logger"
)

// QueueEmail lista de Redis con los trabajos de correo.
const QueueEmail = "jobs:email"

// Job trabajo de correo serializado en la cola.
type Job struct {
	Template    string             `json:"template"`
	To          string             `json:"to"`
	Data        MailData           `json:"data"`
	Attachments []ports.Attachment `json:"attachments,omitempty"`
}

// Dispatcher decide qué correo corresponde a cada evento y lo encola.
// Sin cola envía en el momento; sin Mailer registra el correo y lo descarta.
type Dispatcher struct {
	queue     ports.JobQueue
	mailer    ports.Mailer
	settings  ports.SettingsProvider
	publicURL string
	log       *logger.Logger
	retryBase time.Duration
	retryMax  time.Duration
}

// Espera de los workers tras un error de la cola o del SMTP.
const (
	DefaultRetryBase = 100 * time.Millisecond
	DefaultRetryMax  = 30 * time.Second
)

// Config dependencias del dispatcher; Queue y Mailer son opcionales.
type Config struct {
	Queue     ports.JobQueue
	Mailer    ports.Mailer
	Settings  ports.SettingsProvider
	PublicURL string
	Logger    *logger.Logger
	// RetryBase y RetryMax acotan la espera exponencial entre errores consecutivos.
	RetryBase time.Duration
	RetryMax  time.Duration
}

// NewDispatcher construye el dispatcher de correos.
func NewDispatcher(c Config) *Dispatcher {
	d := &Dispatcher{
		queue:     c.Queue,
		mailer:    c.Mailer,
		settings:  c.Settings,
		publicURL: strings.TrimRight(c.PublicURL, "/"),
		log:       c.Logger,
		retryBase: c.RetryBase,
		retryMax:  c.RetryMax,
	}
	if d.retryBase <= 0 {
		d.retryBase = DefaultRetryBase
	}
	if d.retryMax < d.retryBase {
		d.retryMax = DefaultRetryMax
		if d.retryMax < d.retryBase {
			d.retryMax = d.retryBase
		}
	}
	if d.log == nil {
		d.log = logger.Nop()
	}
	d.log = d.log.Component("notificaciones")
	return d
}

// TemplateFor plantilla que corresponde a un estado según el canal del pedido.
// Devuelve "" cuando el cambio no genera correo.
func TemplateFor(orderType, status string) string {
	switch orderType {
	case entity.OrderTypeInternal:
		switch status {
		case entity.OrderStatusPendingVerification:
			return TemplateOrderConfirmation
		case entity.OrderStatusPaymentPending:
			return TemplatePaymentReady
		case entity.OrderStatusProcessing:
			return TemplatePaymentConfirmed
		case entity.OrderStatusShipped:
			return TemplateShipped
		case entity.OrderStatusCompleted:
			return TemplateCompleted
		}
	case entity.OrderTypeStore:
		switch status {
		case entity.OrderStatusPending:
			return TemplateStoreRegistered
		case entity.OrderStatusProcessing:
			return TemplateStoreProcessing
		case entity.OrderStatusShipped:
			return TemplateStoreShipped
		}
	}
	return ""
}

// PaymentURL enlace a la página de pago del pedido.
func (d *Dispatcher) PaymentURL(orderID int64) string {
	return fmt.Sprintf("%s/pedidos/%d/pago", d.publicURL, orderID)
}

// OrderStatusChanged encola el aviso del nuevo estado. Los fallos se registran
// y no se propagan: el cambio de estado ya está confirmado.
func (d *Dispatcher) OrderStatusChanged(ctx context.Context, o *entity.Order, status string) {
	name := TemplateFor(o.Type, status)
	if name == "" {
		return
	}
	to := o.ContactEmail()
	if to == "" {
		d.log.Debug().Int64("pedido_id", o.ID).Str("plantilla", name).Msg("pedido sin email de contacto")
		return
	}
	data := d.orderData(ctx, o)
	if name == TemplatePaymentReady {
		data.PaymentURL = d.PaymentURL(o.ID)
	}
	if err := d.Enqueue(ctx, Job{Template: name, To: to, Data: data}); err != nil {
		d.log.Error().Err(err).Int64("pedido_id", o.ID).Str("plantilla", name).Msg("no se pudo encolar el correo")
	}
}

// SendInvoice envía la factura en PDF al destinatario indicado.
func (d *Dispatcher) SendInvoice(ctx context.Context, inv *entity.Invoice, pdf []byte, to string) error {
	data := d.baseData(ctx)
	data.CustomerName = inv.CustomerName
	data.OrderID = inv.OrderID
	data.InvoiceNumber = inv.Number
	data.Total = d.money(ctx, inv.Total.StringFixed(2))
	return d.Enqueue(ctx, Job{
		Template: TemplateInvoice,
		To:       to,
		Data:     data,
		Attachments: []ports.Attachment{{
			Filename:    fmt.Sprintf("factura_%s.pdf", inv.Number),
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	})
}

// Enqueue deja el trabajo en la cola. Si no hay cola o Redis falla se envía en el momento.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	if !IsKnownTemplate(job.Template) {
		return fmt.Errorf("plantilla de correo desconocida %q", job.Template)
	}
	if d.queue != nil {
		payload, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("serializar correo: %w", err)
		}
		err = d.queue.Push(ctx, QueueEmail, payload)
		if err == nil {
			return nil
		}
		d.log.Warn().Err(err).Str("plantilla", job.Template).Msg("cola no disponible, envío directo")
	}
	return d.Deliver(ctx, job)
}

// Deliver renderiza y envía el correo.
func (d *Dispatcher) Deliver(ctx context.Context, job Job) error {
	subject, html, text, err := Render(job.Template, job.Data)
	if err != nil {
		return err
	}
	if d.mailer == nil {
		d.log.Info().Str("to", job.To).Str("asunto", subject).Msg("SMTP no configurado, correo descartado")
		return nil
	}
	msg := ports.MailMessage{
		To:          []string{job.To},
		Subject:     subject,
		Text:        text,
		HTML:        html,
		Attachments: job.Attachments,
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("enviar correo %s: %w", job.Template, err)
	}
	d.log.Info().Str("to", job.To).Str("plantilla", job.Template).Msg("correo enviado")
	return nil
}

// Run arranca n workers que consumen la cola hasta que ctx se cancela.
// Sin cola no hace nada: los correos ya se envían de forma síncrona.
func (d *Dispatcher) Run(ctx context.Context, n int) {
	if d.queue == nil {
		return
	}
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		go d.worker(ctx, i)
	}
	d.log.Info().Int("workers", n).Msg("workers de correo iniciados")
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	var wait time.Duration
	for {
		select {
		case <-ctx.Done():
			d.log.Debug().Int("worker", id).Msg("worker de correo detenido")
			return
		default:
		}
		err := d.ProcessNext(ctx, 5*time.Second)
		if err == nil || ctx.Err() != nil {
			wait = 0
			continue
		}
		wait = d.nextBackoff(wait)
		d.log.Error().Err(err).Int("worker", id).Dur("reintento", wait).Msg("error procesando correo")
		select {
		case <-ctx.Done():
			d.log.Debug().Int("worker", id).Msg("worker de correo detenido")
			return
		case <-time.After(wait):
		}
	}
}

// nextBackoff duplica la espera anterior sin pasar de retryMax.
func (d *Dispatcher) nextBackoff(prev time.Duration) time.Duration {
	if prev <= 0 {
		return d.retryBase
	}
	next := prev * 2
	if next > d.retryMax {
		return d.retryMax
	}
	return next
}

// ProcessNext espera hasta timeout por un trabajo y lo envía.
func (d *Dispatcher) ProcessNext(ctx context.Context, timeout time.Duration) error {
	raw, err := d.queue.Pop(ctx, QueueEmail, timeout)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		// Un trabajo corrupto se descarta para no bloquear la cola.
		d.log.Error().Err(err).Msg("trabajo de correo inválido")
		return nil
	}
	return d.Deliver(ctx, job)
}

func (d *Dispatcher) baseData(ctx context.Context) MailData {
	var data MailData
	if d.settings == nil {
		return data
	}
	if c, err := d.settings.Company(ctx); err == nil {
		data.StoreName = c.Name
	}
	if b, err := d.settings.Billing(ctx); err == nil {
		data.Footer = b.InvoiceFooter
	}
	return data
}

func (d *Dispatcher) money(ctx context.Context, amount string) string {
	symbol := "€"
	if d.settings != nil {
		if b, err := d.settings.Billing(ctx); err == nil && b.CurrencySymbol != "" {
			symbol = b.CurrencySymbol
		}
	}
	return amount + " " + symbol
}

func (d *Dispatcher) orderData(ctx context.Context, o *entity.Order) MailData {
	data := d.baseData(ctx)
	data.OrderID = o.ID
	data.CustomerName = o.ClientName
	if data.CustomerName == "" {
		data.CustomerName = o.UserName
	}
	data.Subtotal = d.money(ctx, o.Subtotal.StringFixed(2))
	data.Tax = d.money(ctx, o.Tax.StringFixed(2))
	data.Shipping = d.money(ctx, o.ShippingCost.StringFixed(2))
	data.Total = d.money(ctx, o.Total.StringFixed(2))
	data.ShippingAddress = o.ShippingAddress
	data.Carrier = o.Carrier
	data.TrackingNumber = o.TrackingNumber
	for _, l := range o.Lines {
		data.Items = append(data.Items, MailItem{
			Title:    l.DisplayName(),
			Ref:      l.BookCode,
			Quantity: l.Quantity,
			Price:    d.money(ctx, l.UnitPrice.StringFixed(2)),
		})
	}
	return data
}
