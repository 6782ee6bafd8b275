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

var _ repository.PublisherRepository = (*PublisherRepo)(nil)

// PublisherRepo editoriales para el autocompletado del catálogo.
type PublisherRepo struct {
	q Querier
}

func NewPublisherRepository(q Querier) *PublisherRepo {
	return &PublisherRepo{q: q}
}

func (r *PublisherRepo) Create(ctx context.Context, p *entity.Publisher) error {
	err := r.q.QueryRow(ctx, `INSERT INTO editoriales (nombre) VALUES ($1) RETURNING id`, p.Name).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert publisher: %w", err)
	}
	return nil
}

func (r *PublisherRepo) GetByID(ctx context.Context, id int64) (*entity.Publisher, error) {
	var p entity.Publisher
	err := r.q.QueryRow(ctx, `SELECT id, nombre FROM editoriales WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get publisher: %w", err)
	}
	return &p, nil
}

func (r *PublisherRepo) Update(ctx context.Context, p *entity.Publisher) error {
	cmd, err := r.q.Exec(ctx, `UPDATE editoriales SET nombre = $2 WHERE id = $1`, p.ID, p.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update publisher: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PublisherRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM editoriales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete publisher: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PublisherRepo) List(ctx context.Context) ([]*entity.Publisher, error) {
	return r.query(ctx, `SELECT id, nombre FROM editoriales ORDER BY nombre`)
}

func (r *PublisherRepo) Search(ctx context.Context, q string, limit int) ([]*entity.Publisher, error) {
	return r.query(ctx, `SELECT id, nombre FROM editoriales WHERE nombre ILIKE $1 ORDER BY nombre LIMIT $2`,
		containsPattern(q), limit)
}

func (r *PublisherRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Publisher, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list publishers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Publisher
	for rows.Next() {
		var p entity.Publisher
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan publisher: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
