// Package pdf genera los documentos imprimibles de la librería con Maroto v2:
// la factura emitida a partir de un pedido y el albarán que acompaña al envío.
//
// Layout de la factura (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Librería + NIF        │  N° Factura + Fecha         │
//	│  EMISOR: Dirección / Tel / Email / Web                       │
//	│  CLIENTE: Nombre + NIF + dirección                           │
//	│  TABLA: Cant | Descripción | P.Unit | Importe                │
//	│  TOTALES: Base imponible / IVA / Envío / TOTAL               │
//	│  FOOTER: condiciones y pie configurables                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

var _ ports.PDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 122, Green: 62, Blue: 28}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoPDFGenerator implementa ports.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

// InvoicePDF genera la factura. Los precios de línea llevan IVA incluido.
func (g *MarotoPDFGenerator) InvoicePDF(inv *entity.Invoice, company entity.CompanySettings, billing entity.BillingSettings) ([]byte, error) {
	m := newDocument("Factura "+inv.Number, company.Name)
	symbol := nonEmpty(billing.CurrencySymbol, "€")

	m.AddRows(headerRow(company, "FACTURA", inv.Number, inv.IssueDate.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(company))
	m.AddRows(customerRow("CLIENTE", inv.CustomerName,
		fmt.Sprintf("NIF: %s   |   Email: %s", nonEmpty(inv.CustomerNIF, "—"), nonEmpty(inv.CustomerEmail, "—")),
		inv.Address))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow("Cant.", "Descripción", "P. Unit.", "Importe"))
	for _, l := range inv.Lines {
		m.AddRows(tableRow(fmt.Sprint(l.Quantity), l.Description,
			formatMoney(l.UnitPrice, symbol), formatMoney(l.Amount, symbol)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Base imponible:", formatMoney(inv.Subtotal, symbol)},
		{fmt.Sprintf("IVA (%s%%):", inv.TaxRate.String()), formatMoney(inv.TaxAmount, symbol)},
		{"Envío:", formatMoney(inv.ShippingCost, symbol)},
	}, [2]string{"TOTAL:", formatMoney(inv.Total, symbol)}))

	if inv.PaymentMethod != "" {
		m.AddRows(noteRow("Forma de pago: " + inv.PaymentMethod))
	}
	if inv.Status == entity.InvoiceStatusVoid {
		m.AddRows(row.New(12).Add(col.New(12).Add(text.New("FACTURA ANULADA", props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 2,
		}))))
	}
	m.AddRows(line.NewRow(3))
	for _, s := range []string{billing.InvoiceTerms, billing.InvoiceFooter, inv.Notes} {
		if strings.TrimSpace(s) != "" {
			m.AddRows(noteRow(s))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar factura: %w", err)
	}
	return doc.GetBytes(), nil
}

// PackingSlipPDF genera el albarán: datos de envío, líneas sin precios y QR con el número de pedido.
func (g *MarotoPDFGenerator) PackingSlipPDF(o *entity.Order, company entity.CompanySettings) ([]byte, error) {
	m := newDocument(fmt.Sprintf("Albarán pedido %d", o.ID), company.Name)
	ref := fmt.Sprintf("%d", o.ID)

	m.AddRows(headerRow(company, "ALBARÁN", "Pedido #"+ref, o.OrderDate.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	contact := fmt.Sprintf("Tel: %s   |   Email: %s", nonEmpty(o.ClientPhone, "—"), nonEmpty(o.ContactEmail(), "—"))
	m.AddRows(customerRow("ENVIAR A", nonEmpty(o.ClientName, o.UserName), contact, o.ShippingAddress))
	if o.Carrier != "" || o.TrackingNumber != "" {
		m.AddRows(noteRow(fmt.Sprintf("Transportista: %s   |   Seguimiento: %s",
			nonEmpty(o.Carrier, "—"), nonEmpty(o.TrackingNumber, "—"))))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow("Cant.", "Artículo", "Código", ""))
	units := 0
	for _, l := range o.Lines {
		units += l.Quantity
		m.AddRows(tableRow(fmt.Sprint(l.Quantity), l.DisplayName(), nonEmpty(l.BookCode, "—"), ""))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(noteRow(fmt.Sprintf("Total de unidades: %d", units)))
	if o.Notes != "" {
		m.AddRows(noteRow("Observaciones: " + o.Notes))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(35).Add(
		col.New(3).Add(code.NewQr("PEDIDO-"+ref, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(text.New("Gracias por su compra en "+company.Name, props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 12, Left: 3, Color: colorPrimary,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar albarán: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre de la librería + NIF (izq) y tipo, número y fecha del documento (der).
func headerRow(company entity.CompanySettings, kind, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company.Name, "Librería"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIF: "+nonEmpty(company.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func issuerRow(company entity.CompanySettings) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(nonEmpty(company.Address, "—"), props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New(fmt.Sprintf("Tel: %s   |   Email: %s   |   %s",
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
				nonEmpty(company.Website, ""),
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

func customerRow(title, name, contact, address string) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(name, "—"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(contact, props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(address, props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
	)
}

func tableHeaderRow(qty, desc, unit, amount string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h(qty, 1, align.Center),
		h(desc, 7, align.Left),
		h(unit, 2, align.Right),
		h(amount, 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRow(qty, desc, unit, amount string) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(qty, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(7).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(unit, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(amount, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// totalsRow: importes alineados a la derecha con el total destacado al final.
func totalsRow(items [][2]string, grand [2]string) core.Row {
	labels := col.New(3)
	values := col.New(3)
	top := 0.0
	for _, it := range items {
		labels.Add(text.New(it[0], props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		values.Add(text.New(it[1], props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
		top += 5
	}
	labels.Add(text.New(grand[0], props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: top + 1}))
	values.Add(text.New(grand[1], props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top + 1}))
	return row.New(top + 10).Add(col.New(6), labels, values)
}

func noteRow(s string) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(s, props.Text{Size: 7.5, Color: colorGray, Top: 2})))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney importe con dos decimales, coma decimal y puntos de miles.
// Ej: 1234.5 → "1.234,50 €"
func formatMoney(d decimal.Decimal, symbol string) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + string(buf) + "," + frac + " " + symbol
}
