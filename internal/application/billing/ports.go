package billing

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// InvoiceSender entrega la factura en PDF por correo (cola de notificaciones).
type InvoiceSender interface {
	SendInvoice(ctx context.Context, inv *entity.Invoice, pdf []byte, to string) error
}
