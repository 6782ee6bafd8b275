package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// Plantillas de correo.
const (
	TemplateOrderConfirmation = "order_confirmation"
	TemplatePaymentReady      = "payment_ready"
	TemplatePaymentConfirmed  = "payment_confirmed"
	TemplateShipped           = "shipped"
	TemplateCompleted         = "completed"
	TemplateStoreRegistered   = "store_registered"
	TemplateStoreProcessing   = "store_processing"
	TemplateStoreShipped      = "store_shipped"
	TemplateInvoice           = "invoice"
)

// MailItem línea de pedido tal como aparece en el correo.
type MailItem struct {
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	Ref      string `json:"ref,omitempty"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// MailData datos que consumen las plantillas. Los importes ya vienen formateados.
type MailData struct {
	StoreName       string     `json:"store_name"`
	CustomerName    string     `json:"customer_name"`
	OrderID         int64      `json:"order_id,omitempty"`
	Items           []MailItem `json:"items,omitempty"`
	Subtotal        string     `json:"subtotal,omitempty"`
	Tax             string     `json:"tax,omitempty"`
	Shipping        string     `json:"shipping,omitempty"`
	Total           string     `json:"total,omitempty"`
	ShippingAddress string     `json:"shipping_address,omitempty"`
	PaymentURL      string     `json:"payment_url,omitempty"`
	Carrier         string     `json:"carrier,omitempty"`
	TrackingNumber  string     `json:"tracking_number,omitempty"`
	InvoiceNumber   string     `json:"invoice_number,omitempty"`
	Footer          string     `json:"footer,omitempty"`
}

const layout = `<!DOCTYPE html>
<html lang="es"><body style="font-family:Arial,sans-serif;color:#222">
<h2>{{.StoreName}}</h2>
<p>Hola {{if .CustomerName}}{{.CustomerName}}{{else}}cliente{{end}},</p>
{{template "body" .}}
{{if .Items}}<table cellpadding="4" style="border-collapse:collapse">
<tr><th align="left">Libro</th><th>Cant.</th><th align="right">Precio</th></tr>
{{range .Items}}<tr><td>{{.Title}}{{if .Author}} <small>({{.Author}})</small>{{end}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.Price}}</td></tr>
{{end}}</table>{{end}}
{{if .Total}}<p>{{if .Subtotal}}Subtotal: {{.Subtotal}}<br>{{end}}{{if .Tax}}IVA: {{.Tax}}<br>{{end}}{{if .Shipping}}Envío: {{.Shipping}}<br>{{end}}<strong>Total: {{.Total}}</strong></p>{{end}}
<p style="color:#777;font-size:12px">{{.Footer}}</p>
</body></html>`

type mailTemplate struct {
	subject string
	body    string
}

var mailTemplates = map[string]mailTemplate{
	TemplateOrderConfirmation: {
		subject: "Hemos recibido tu pedido #%d",
		body: `<p>Gracias por tu compra. Revisaremos la disponibilidad de los libros y te enviaremos el enlace de pago.</p>
{{if .ShippingAddress}}<p>Dirección de envío: {{.ShippingAddress}}</p>{{end}}`,
	},
	TemplatePaymentReady: {
		subject: "Tu pedido #%d está listo para el pago",
		body:    `<p>Hemos verificado tu pedido. Puedes completar el pago aquí: <a href="{{.PaymentURL}}">{{.PaymentURL}}</a></p>`,
	},
	TemplatePaymentConfirmed: {
		subject: "Pago confirmado del pedido #%d",
		body:    `<p>Hemos recibido tu pago. Estamos preparando tu pedido.</p>`,
	},
	TemplateShipped: {
		subject: "Tu pedido #%d ha sido enviado",
		body:    `<p>Tu pedido ya está en camino{{if .Carrier}} con {{.Carrier}}{{end}}.</p>{{if .TrackingNumber}}<p>Número de seguimiento: <strong>{{.TrackingNumber}}</strong></p>{{end}}`,
	},
	TemplateCompleted: {
		subject: "Pedido #%d completado",
		body:    `<p>Tu pedido se ha completado. Esperamos que disfrutes de la lectura.</p>`,
	},
	TemplateStoreRegistered: {
		subject: "Pedido #%d registrado",
		body:    `<p>Hemos registrado tu pedido en la librería. Te avisaremos cuando esté en preparación.</p>`,
	},
	TemplateStoreProcessing: {
		subject: "Pedido #%d en preparación",
		body:    `<p>Estamos preparando tu pedido.</p>`,
	},
	TemplateStoreShipped: {
		subject: "Pedido #%d enviado",
		body:    `<p>Tu pedido ha salido de la librería{{if .Carrier}} con {{.Carrier}}{{end}}.</p>{{if .TrackingNumber}}<p>Seguimiento: {{.TrackingNumber}}</p>{{end}}`,
	},
	TemplateInvoice: {
		subject: "Factura %s",
		body:    `<p>Adjuntamos la factura {{.InvoiceNumber}} correspondiente a tu pedido.</p>`,
	},
}

var templates = func() map[string]*template.Template {
	base := template.Must(template.New("layout").Parse(layout))
	out := make(map[string]*template.Template, len(mailTemplates))
	for name, s := range mailTemplates {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.New("body").Parse(s.body))
	}
	return out
}()

// IsKnownTemplate indica si existe la plantilla.
func IsKnownTemplate(name string) bool {
	_, ok := mailTemplates[name]
	return ok
}

// Render devuelve asunto, HTML y texto plano de la plantilla.
func Render(name string, d MailData) (subject, html, text string, err error) {
	s, ok := mailTemplates[name]
	if !ok {
		return "", "", "", fmt.Errorf("plantilla de correo desconocida %q", name)
	}
	if name == TemplateInvoice {
		subject = fmt.Sprintf(s.subject, d.InvoiceNumber)
	} else {
		subject = fmt.Sprintf(s.subject, d.OrderID)
	}
	var buf bytes.Buffer
	if err := templates[name].ExecuteTemplate(&buf, "layout", d); err != nil {
		return "", "", "", fmt.Errorf("render %s: %w", name, err)
	}
	return subject, buf.String(), plainText(subject, d), nil
}

func plainText(subject string, d MailData) string {
	var b strings.Builder
	b.WriteString(subject + "\n\n")
	if d.PaymentURL != "" {
		b.WriteString("Pago: " + d.PaymentURL + "\n")
	}
	if d.TrackingNumber != "" {
		b.WriteString("Seguimiento: " + strings.TrimSpace(d.Carrier+" "+d.TrackingNumber) + "\n")
	}
	for _, it := range d.Items {
		fmt.Fprintf(&b, "- %s x%d %s\n", it.Title, it.Quantity, it.Price)
	}
	if d.Total != "" {
		b.WriteString("Total: " + d.Total + "\n")
	}
	return b.String()
}
