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

var _ repository.DiscountRepository = (*DiscountRepo)(nil)

// DiscountRepo descuentos globales y por categoría.
type DiscountRepo struct {
	q Querier
}

func NewDiscountRepository(q Querier) *DiscountRepo {
	return &DiscountRepo{q: q}
}

const discountSelect = `
	SELECT d.id, d.nombre, d.porcentaje, d.ambito, d.categoria_id, COALESCE(c.nombre, ''),
	       d.activo, d.fecha_inicio, d.fecha_fin, d.created_at
	FROM global_discounts d
	LEFT JOIN categorias c ON c.id = d.categoria_id`

func scanDiscount(row pgx.Row) (*entity.DiscountRule, error) {
	var d entity.DiscountRule
	err := row.Scan(&d.ID, &d.Name, &d.Percent, &d.Scope, &d.CategoryID, &d.CategoryName,
		&d.Active, &d.StartDate, &d.EndDate, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiscountRepo) Create(ctx context.Context, d *entity.DiscountRule) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO global_discounts (nombre, porcentaje, ambito, categoria_id, activo, fecha_inicio, fecha_fin)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		d.Name, d.Percent, d.Scope, d.CategoryID, d.Active, d.StartDate, d.EndDate,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

func (r *DiscountRepo) GetByID(ctx context.Context, id int64) (*entity.DiscountRule, error) {
	d, err := scanDiscount(r.q.QueryRow(ctx, discountSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount: %w", err)
	}
	return d, nil
}

func (r *DiscountRepo) Update(ctx context.Context, d *entity.DiscountRule) error {
	_, err := r.q.Exec(ctx, `
		UPDATE global_discounts SET nombre = $2, porcentaje = $3, ambito = $4, categoria_id = $5, activo = $6,
		       fecha_inicio = $7, fecha_fin = $8
		WHERE id = $1`,
		d.ID, d.Name, d.Percent, d.Scope, d.CategoryID, d.Active, d.StartDate, d.EndDate)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update discount: %w", err)
	}
	return nil
}

func (r *DiscountRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM global_discounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DiscountRepo) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE global_discounts SET activo = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("toggle discount: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List con onlyActive filtra también por la ventana de fechas.
func (r *DiscountRepo) List(ctx context.Context, onlyActive bool) ([]*entity.DiscountRule, error) {
	query := discountSelect
	if onlyActive {
		query += ` WHERE d.activo AND (d.fecha_inicio IS NULL OR d.fecha_inicio <= now())
		             AND (d.fecha_fin IS NULL OR d.fecha_fin >= now())`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY d.porcentaje DESC, d.id`)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.DiscountRule
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
