package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// PDF genera la factura imprimible con los datos de empresa y facturación.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrIntegrationDisabled si no hay generador de PDF configurado.
func (uc *UseCase) PDF(ctx context.Context, id int64) ([]byte, string, error) {
	inv, err := uc.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.render(ctx, inv)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}

func (uc *UseCase) render(ctx context.Context, inv *entity.Invoice) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("%w: generador de PDF no configurado", domain.ErrIntegrationDisabled)
	}
	company, err := uc.settings.Company(ctx)
	if err != nil {
		return nil, err
	}
	billing, err := uc.settings.Billing(ctx)
	if err != nil {
		return nil, err
	}
	data, err := uc.pdf.InvoicePDF(inv, company, billing)
	if err != nil {
		return nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return data, nil
}

// SendByEmail adjunta el PDF y lo envía por la cola de correos. Si to está
// vacío se usa el email de la factura.
func (uc *UseCase) SendByEmail(ctx context.Context, id int64, to string) error {
	if uc.sender == nil {
		return fmt.Errorf("%w: envío de correo no configurado", domain.ErrIntegrationDisabled)
	}
	inv, err := uc.find(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status == entity.InvoiceStatusVoid {
		return fmt.Errorf("%w: la factura %s está anulada", domain.ErrConflict, inv.Number)
	}
	to = strings.TrimSpace(to)
	if to == "" {
		to = inv.CustomerEmail
	}
	if to == "" {
		return fmt.Errorf("%w: la factura no tiene email de destino", domain.ErrInvalidInput)
	}
	data, err := uc.render(ctx, inv)
	if err != nil {
		return err
	}
	if err := uc.sender.SendInvoice(ctx, inv, data, to); err != nil {
		return err
	}
	uc.log.Info().Str("numero", inv.Number).Str("to", to).Msg("factura enviada por email")
	return nil
}
