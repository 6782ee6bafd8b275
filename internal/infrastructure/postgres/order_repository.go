package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)
var _ repository.AuditRepository = (*AuditRepo)(nil)

// OrderRepo pedidos y líneas de pedido (pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderSelect = `
	SELECT p.id, COALESCE(p.usuario_id::text, ''), COALESCE(p.cliente_id::text, ''), p.tipo, p.estado, p.metodo_pago,
	       p.direccion_envio, p.transportista, p.numero_seguimiento, p.coste_envio, p.subtotal, p.iva, p.total,
	       p.deposito, p.observaciones, p.referencia_externa, COALESCE(p.stripe_payment_id, ''), p.fecha_pedido,
	       p.created_at, p.updated_at,
	       COALESCE(trim(c.nombre || ' ' || c.apellidos), ''), COALESCE(c.email, ''), COALESCE(NULLIF(c.movil, ''), c.telefono, ''),
	       COALESCE(u.email, ''), COALESCE(u.nombre, '')
	FROM pedidos p
	LEFT JOIN clientes c ON c.id = p.cliente_id
	LEFT JOIN usuarios u ON u.id = p.usuario_id`

const orderLineSelect = `
	SELECT d.id, d.pedido_id, d.libro_id, d.cantidad, d.precio_unitario, d.nombre_externo, d.url_externa,
	       COALESCE(l.titulo, ''), COALESCE(l.legacy_id, '')
	FROM pedido_detalles d
	LEFT JOIN libros l ON l.id = d.libro_id`

// orderSearchText texto en el que busca el filtro libre. Cada columna de los LEFT JOIN
// va en COALESCE: un NULL anularía la concatenación entera.
const orderSearchText = `(p.id::text || ' ' || COALESCE(c.nombre, '') || ' ' || COALESCE(c.apellidos, '') || ' ' ||
	COALESCE(c.email, '') || ' ' || COALESCE(u.nombre, '') || ' ' || COALESCE(u.email, '') || ' ' ||
	COALESCE(p.referencia_externa, ''))`

// notCounted estados que no suman ventas.
var notCounted = []string{entity.OrderStatusCancelled, entity.OrderStatusReturned}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ClientID, &o.Type, &o.Status, &o.PaymentMethod,
		&o.ShippingAddress, &o.Carrier, &o.TrackingNumber, &o.ShippingCost, &o.Subtotal, &o.Tax, &o.Total,
		&o.Deposit, &o.Notes, &o.ExternalRef, &o.StripePaymentID, &o.OrderDate,
		&o.CreatedAt, &o.UpdatedAt,
		&o.ClientName, &o.ClientEmail, &o.ClientPhone, &o.UserEmail, &o.UserName)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func orderDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// Create inserta pedido y líneas de forma atómica (savepoint si ya hay una tx abierta).
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO pedidos (usuario_id, cliente_id, tipo, estado, metodo_pago, direccion_envio, transportista,
		                     numero_seguimiento, coste_envio, subtotal, iva, total, deposito, observaciones,
		                     referencia_externa, stripe_payment_id, fecha_pedido)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, COALESCE($17, now()))
		RETURNING id, fecha_pedido, created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		nullIfEmpty(o.UserID), nullIfEmpty(o.ClientID), o.Type, o.Status, o.PaymentMethod, o.ShippingAddress, o.Carrier,
		o.TrackingNumber, o.ShippingCost, o.Subtotal, o.Tax, o.Total, o.Deposit, o.Notes,
		o.ExternalRef, nullIfEmpty(o.StripePaymentID), orderDate(o.OrderDate),
	).Scan(&o.ID, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, l := range o.Lines {
		l.OrderID = o.ID
		if err := insertOrderLine(ctx, tx, l); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order insert: %w", err)
	}
	return nil
}

func insertOrderLine(ctx context.Context, q Querier, l *entity.OrderLine) error {
	err := q.QueryRow(ctx, `
		INSERT INTO pedido_detalles (pedido_id, libro_id, cantidad, precio_unitario, nombre_externo, url_externa)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		l.OrderID, l.BookID, l.Quantity, l.UnitPrice, l.ExternalName, l.ExternalURL,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

func (r *OrderRepo) getOne(ctx context.Context, query string, arg any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID pedido con líneas y datos de cliente/usuario.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE p.id = $1`, id)
}

// GetForUpdate como GetByID bloqueando la fila del pedido hasta el fin de la tx.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

func (r *OrderRepo) GetByPaymentIntent(ctx context.Context, intentID string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE p.stripe_payment_id = $1`, intentID)
}

// loadLines carga las líneas de uno o varios pedidos en una sola consulta.
func (r *OrderRepo) loadLines(ctx context.Context, orders ...*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, orderLineSelect+` WHERE d.pedido_id = ANY($1) ORDER BY d.id`, ids)
	if err != nil {
		return fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.BookID, &l.Quantity, &l.UnitPrice, &l.ExternalName, &l.ExternalURL,
			&l.BookTitle, &l.BookCode); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if o := byID[l.OrderID]; o != nil {
			o.Lines = append(o.Lines, &l)
		}
	}
	return rows.Err()
}

func (r *OrderRepo) collect(ctx context.Context, rows pgx.Rows) ([]*entity.Order, error) {
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}

// List pedidos filtrados, del más reciente al más antiguo, con el total sin paginar.
func (r *OrderRepo) List(ctx context.Context, f entity.OrderFilter) ([]*entity.Order, int, error) {
	var fl filters
	if f.Status != "" {
		fl.add("p.estado = $%d", f.Status)
	}
	if f.Type != "" {
		fl.add("p.tipo = $%d", f.Type)
	}
	if f.ClientID != "" {
		fl.add("p.cliente_id::text = $%d", f.ClientID)
	}
	if f.UserID != "" {
		fl.add("p.usuario_id::text = $%d", f.UserID)
	}
	if f.From != nil {
		fl.add("p.fecha_pedido >= $%d", *f.From)
	}
	if f.To != nil {
		fl.add("p.fecha_pedido <= $%d", *f.To)
	}
	if f.Query != "" {
		fl.add(orderSearchText+" ILIKE $%d", containsPattern(f.Query))
	}
	from := ` FROM pedidos p LEFT JOIN clientes c ON c.id = p.cliente_id LEFT JOIN usuarios u ON u.id = p.usuario_id`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from+fl.where(), fl.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	clause, args := fl.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, orderSelect+fl.where()+` ORDER BY p.fecha_pedido DESC, p.id DESC`+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	list, err := r.collect(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todos los pedidos con líneas (exportación).
func (r *OrderRepo) ListAll(ctx context.Context) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, orderSelect+` ORDER BY p.fecha_pedido DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return r.collect(ctx, rows)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status, notes string) error {
	_, err := r.q.Exec(ctx, `UPDATE pedidos SET estado = $2, observaciones = $3, updated_at = now() WHERE id = $1`,
		id, status, notes)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// UpdateTotals guarda los importes recalculados tras editar líneas.
func (r *OrderRepo) UpdateTotals(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `UPDATE pedidos SET subtotal = $2, iva = $3, total = $4, updated_at = now() WHERE id = $1`,
		o.ID, o.Subtotal, o.Tax, o.Total)
	if err != nil {
		return fmt.Errorf("update order totals: %w", err)
	}
	return nil
}

func (r *OrderRepo) UpdateShipping(ctx context.Context, id int64, carrier, tracking string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE pedidos SET transportista = $2, numero_seguimiento = $3, updated_at = now() WHERE id = $1`,
		id, carrier, tracking)
	if err != nil {
		return fmt.Errorf("update order shipping: %w", err)
	}
	return nil
}

func (r *OrderRepo) SetPaymentIntent(ctx context.Context, id int64, intentID string) error {
	_, err := r.q.Exec(ctx, `UPDATE pedidos SET stripe_payment_id = $2, updated_at = now() WHERE id = $1`,
		id, nullIfEmpty(intentID))
	if err != nil {
		return fmt.Errorf("set payment intent: %w", err)
	}
	return nil
}

func (r *OrderRepo) ExistsExternalRef(ctx context.Context, orderType, ref string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pedidos WHERE tipo = $1 AND referencia_externa = $2 AND referencia_externa <> '')`,
		orderType, ref).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists external ref: %w", err)
	}
	return exists, nil
}

func (r *OrderRepo) AddLine(ctx context.Context, line *entity.OrderLine) error {
	return insertOrderLine(ctx, r.q, line)
}

func (r *OrderRepo) DeleteLine(ctx context.Context, orderID, lineID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM pedido_detalles WHERE pedido_id = $1 AND id = $2`, orderID, lineID)
	if err != nil {
		return fmt.Errorf("delete order line: %w", err)
	}
	return nil
}

// Stats total de pedidos, desglose por estado y ventas (sin cancelados ni devueltos).
func (r *OrderRepo) Stats(ctx context.Context) (*entity.OrderStats, error) {
	rows, err := r.q.Query(ctx, `
		SELECT estado, COUNT(*), COALESCE(SUM(total) FILTER (WHERE NOT (estado = ANY($1))), 0)
		FROM pedidos GROUP BY estado`, notCounted)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	defer rows.Close()
	s := &entity.OrderStats{ByStatus: map[string]int{}, TotalSales: decimal.Zero}
	for rows.Next() {
		var status string
		var n int
		var sales decimal.Decimal
		if err := rows.Scan(&status, &n, &sales); err != nil {
			return nil, fmt.Errorf("scan order stats: %w", err)
		}
		s.ByStatus[status] = n
		s.Total += n
		s.TotalSales = s.TotalSales.Add(sales)
	}
	return s, rows.Err()
}

// TopSelling unidades vendidas por producto (título del libro o nombre externo).
func (r *OrderRepo) TopSelling(ctx context.Context, limit int) ([]entity.TopSellingItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(l.titulo, NULLIF(d.nombre_externo, ''), 'Producto desconocido') AS nombre, SUM(d.cantidad) AS unidades
		FROM pedido_detalles d
		LEFT JOIN libros l ON l.id = d.libro_id
		GROUP BY nombre
		ORDER BY unidades DESC, nombre
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top selling: %w", err)
	}
	defer rows.Close()
	var out []entity.TopSellingItem
	for rows.Next() {
		var it entity.TopSellingItem
		if err := rows.Scan(&it.Name, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan top selling: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrderRepo) CountByStatus(ctx context.Context, statuses ...string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM pedidos WHERE estado = ANY($1)`, statuses).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders by status: %w", err)
	}
	return n, nil
}

// AuditRepo registro de auditoría.
type AuditRepo struct {
	q Querier
}

func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Insert(ctx context.Context, e *entity.AuditEntry) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO auditoria (tabla, registro_id, accion, valor_anterior, valor_nuevo, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		e.Table, e.RecordID, e.Action, e.OldValue, e.NewValue, e.UserID,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}
