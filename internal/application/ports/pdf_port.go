package ports

import (
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// PDFGenerator genera los documentos imprimibles (factura y albarán de pedido).
type PDFGenerator interface {
	InvoicePDF(inv *entity.Invoice, company entity.CompanySettings, billing entity.BillingSettings) ([]byte, error)
	PackingSlipPDF(o *entity.Order, company entity.CompanySettings) ([]byte, error)
}
