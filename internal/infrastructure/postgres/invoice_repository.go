package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceSelect = `
	SELECT id, numero, pedido_id, COALESCE(cliente_id::text, ''), nombre_cliente, nif_cliente, email_cliente, direccion,
	       fecha_emision, estado, metodo_pago, tasa_iva, subtotal, importe_iva, coste_envio, total, notas,
	       created_at, updated_at
	FROM facturas`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.OrderID, &inv.ClientID, &inv.CustomerName, &inv.CustomerNIF,
		&inv.CustomerEmail, &inv.Address, &inv.IssueDate, &inv.Status, &inv.PaymentMethod, &inv.TaxRate,
		&inv.Subtotal, &inv.TaxAmount, &inv.ShippingCost, &inv.Total, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste cabecera y líneas. Una sola factura por pedido y número único.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin invoice insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO facturas (numero, pedido_id, cliente_id, nombre_cliente, nif_cliente, email_cliente, direccion,
		                      fecha_emision, estado, metodo_pago, tasa_iva, subtotal, importe_iva, coste_envio, total, notas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		inv.Number, inv.OrderID, nullIfEmpty(inv.ClientID), inv.CustomerName, inv.CustomerNIF, inv.CustomerEmail,
		inv.Address, inv.IssueDate, inv.Status, inv.PaymentMethod, inv.TaxRate, inv.Subtotal, inv.TaxAmount,
		inv.ShippingCost, inv.Total, inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el pedido %d ya tiene factura", domain.ErrDuplicate, inv.OrderID)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for _, l := range inv.Lines {
		l.InvoiceID = inv.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO factura_lineas (factura_id, libro_id, descripcion, cantidad, precio_unitario, importe)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			l.InvoiceID, l.BookID, l.Description, l.Quantity, l.UnitPrice, l.Amount,
		).Scan(&l.ID)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit invoice insert: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) getOne(ctx context.Context, where string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, invoiceSelect+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := r.loadLines(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByID factura con líneas.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.getOne(ctx, ` WHERE id = $1`, id)
}

// GetByOrderID factura del pedido, si existe.
func (r *InvoiceRepo) GetByOrderID(ctx context.Context, orderID int64) (*entity.Invoice, error) {
	return r.getOne(ctx, ` WHERE pedido_id = $1`, orderID)
}

func (r *InvoiceRepo) loadLines(ctx context.Context, inv *entity.Invoice) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, factura_id, libro_id, descripcion, cantidad, precio_unitario, importe
		FROM factura_lineas WHERE factura_id = $1 ORDER BY id`, inv.ID)
	if err != nil {
		return fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.BookID, &l.Description, &l.Quantity, &l.UnitPrice, &l.Amount); err != nil {
			return fmt.Errorf("scan invoice line: %w", err)
		}
		inv.Lines = append(inv.Lines, &l)
	}
	return rows.Err()
}

func collectInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// List cabeceras de factura (sin líneas), más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Invoice, int, error) {
	var fl filters
	if status != "" {
		fl.add("estado = $%d", status)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM facturas`+fl.where(), fl.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	clause, args := fl.page(limit, offset)
	rows, err := r.q.Query(ctx, invoiceSelect+fl.where()+` ORDER BY fecha_emision DESC, id DESC`+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	list, err := collectInvoices(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todas las cabeceras (exportación).
func (r *InvoiceRepo) ListAll(ctx context.Context) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, invoiceSelect+` ORDER BY fecha_emision DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all invoices: %w", err)
	}
	return collectInvoices(rows)
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE facturas SET estado = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// NextSequence incrementa de forma atómica el correlativo de prefijo+año y lo devuelve.
func (r *InvoiceRepo) NextSequence(ctx context.Context, prefix string, year int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		INSERT INTO factura_secuencias (prefijo, anio, ultimo) VALUES ($1, $2, 1)
		ON CONFLICT (prefijo, anio) DO UPDATE SET ultimo = factura_secuencias.ultimo + 1
		RETURNING ultimo`, prefix, year).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return n, nil
}
