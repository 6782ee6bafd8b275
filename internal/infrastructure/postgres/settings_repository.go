package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)
var _ repository.BannerRepository = (*BannerRepo)(nil)

// SettingsRepo un blob JSONB por categoría de configuración.
type SettingsRepo struct {
	q Querier
}

func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func scanSetting(row pgx.Row) (*entity.Setting, error) {
	var s entity.Setting
	var raw []byte
	if err := row.Scan(&s.Category, &raw, &s.UpdatedAt, &s.UpdatedBy); err != nil {
		return nil, err
	}
	s.Value = raw
	return &s, nil
}

func (r *SettingsRepo) Get(ctx context.Context, category string) (*entity.Setting, error) {
	s, err := scanSetting(r.q.QueryRow(ctx,
		`SELECT categoria, valor, updated_at, updated_by FROM settings WHERE categoria = $1`, category))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepo) List(ctx context.Context) ([]*entity.Setting, error) {
	rows, err := r.q.Query(ctx, `SELECT categoria, valor, updated_at, updated_by FROM settings ORDER BY categoria`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settings: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Upsert guarda el blob completo de la categoría.
func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.Setting) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO settings (categoria, valor, updated_by) VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (categoria) DO UPDATE SET valor = EXCLUDED.valor, updated_by = EXCLUDED.updated_by, updated_at = now()
		RETURNING updated_at`, s.Category, string(s.Value), s.UpdatedBy,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func (r *SettingsRepo) Delete(ctx context.Context, category string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM settings WHERE categoria = $1`, category); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}

// BannerRepo banners de marketing de la tienda.
type BannerRepo struct {
	q Querier
}

func NewBannerRepository(q Querier) *BannerRepo {
	return &BannerRepo{q: q}
}

const bannerSelect = `
	SELECT id::text, titulo, subtitulo, imagen_url, enlace_url, tipo, descuento, fecha_inicio, fecha_fin,
	       activo, prioridad, created_at, updated_at
	FROM marketing_banners`

func scanBanner(row pgx.Row) (*entity.Banner, error) {
	var b entity.Banner
	err := row.Scan(&b.ID, &b.Title, &b.Subtitle, &b.ImageURL, &b.LinkURL, &b.Type, &b.DiscountPercent,
		&b.StartDate, &b.EndDate, &b.Active, &b.Priority, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BannerRepo) Create(ctx context.Context, b *entity.Banner) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO marketing_banners (id, titulo, subtitulo, imagen_url, enlace_url, tipo, descuento, fecha_inicio,
		                               fecha_fin, activo, prioridad)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING created_at, updated_at`,
		b.ID, b.Title, b.Subtitle, b.ImageURL, b.LinkURL, b.Type, b.DiscountPercent, b.StartDate, b.EndDate,
		b.Active, b.Priority,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}
	return nil
}

func (r *BannerRepo) GetByID(ctx context.Context, id string) (*entity.Banner, error) {
	b, err := scanBanner(r.q.QueryRow(ctx, bannerSelect+` WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get banner: %w", err)
	}
	return b, nil
}

func (r *BannerRepo) Update(ctx context.Context, b *entity.Banner) error {
	_, err := r.q.Exec(ctx, `
		UPDATE marketing_banners SET titulo = $2, subtitulo = $3, imagen_url = $4, enlace_url = $5, tipo = $6,
		       descuento = $7, fecha_inicio = $8, fecha_fin = $9, activo = $10, prioridad = $11, updated_at = now()
		WHERE id::text = $1`,
		b.ID, b.Title, b.Subtitle, b.ImageURL, b.LinkURL, b.Type, b.DiscountPercent, b.StartDate, b.EndDate,
		b.Active, b.Priority)
	if err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	return nil
}

func (r *BannerRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM marketing_banners WHERE id::text = $1`, id); err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	return nil
}

// List por prioridad descendente y, a igual prioridad, los más recientes primero.
func (r *BannerRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Banner, error) {
	query := bannerSelect
	if onlyActive {
		query += ` WHERE activo`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY prioridad DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Banner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
