package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

var _ repository.BookRepository = (*BookRepo)(nil)
var _ repository.StockRepository = (*BookRepo)(nil)

// BookRepo implementación de BookRepository y StockRepository sobre la tabla libros (pool o tx).
type BookRepo struct {
	q Querier
}

// NewBookRepository construye el adaptador de persistencia para libros. Pasar pool o tx (Querier).
func NewBookRepository(q Querier) *BookRepo {
	return &BookRepo{q: q}
}

const bookSelect = `
	SELECT l.id, COALESCE(l.legacy_id, ''), l.titulo, l.autor, l.editorial, l.isbn, l.precio, l.stock,
	       l.categoria_id, COALESCE(c.nombre, ''), l.ubicacion, l.idioma, l.estado, l.anio_publicacion,
	       l.paginas, l.descripcion, l.imagen_portada, l.notas, l.destacado, l.activo, l.created_at, l.updated_at
	FROM libros l
	LEFT JOIN categorias c ON c.id = l.categoria_id`

// foldedText expresión SQL equivalente a textnorm.Fold sobre título, autor e ISBN.
const foldedText = `lower(unaccent(l.titulo || ' ' || l.autor || ' ' || l.isbn))`

func scanBook(row pgx.Row) (*entity.Book, error) {
	var b entity.Book
	err := row.Scan(&b.ID, &b.Code, &b.Title, &b.Author, &b.Publisher, &b.ISBN, &b.Price, &b.Stock,
		&b.CategoryID, &b.CategoryName, &b.Location, &b.Language, &b.Condition, &b.Year,
		&b.Pages, &b.Description, &b.CoverURL, &b.Notes, &b.Featured, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBooks(rows pgx.Rows) ([]*entity.Book, error) {
	defer rows.Close()
	var list []*entity.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Create persiste un libro nuevo y asigna su ID.
func (r *BookRepo) Create(ctx context.Context, b *entity.Book) error {
	query := `
		INSERT INTO libros (legacy_id, titulo, autor, editorial, isbn, precio, stock, categoria_id, ubicacion, idioma,
		                    estado, anio_publicacion, paginas, descripcion, imagen_portada, notas, destacado, activo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		nullIfEmpty(b.Code), b.Title, b.Author, b.Publisher, b.ISBN, b.Price, b.Stock, b.CategoryID, b.Location,
		b.Language, b.Condition, b.Year, b.Pages, b.Description, b.CoverURL, b.Notes, b.Featured, b.Active,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// GetByID obtiene un libro por ID.
func (r *BookRepo) GetByID(ctx context.Context, id int64) (*entity.Book, error) {
	b, err := scanBook(r.q.QueryRow(ctx, bookSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// GetByCode obtiene un libro por su código interno (legacy_id).
func (r *BookRepo) GetByCode(ctx context.Context, code string) (*entity.Book, error) {
	b, err := scanBook(r.q.QueryRow(ctx, bookSelect+` WHERE l.legacy_id = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get book by code: %w", err)
	}
	return b, nil
}

// GetByIDs carga varios libros en una sola consulta.
func (r *BookRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Book, error) {
	out := make(map[int64]*entity.Book, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, bookSelect+` WHERE l.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get books by ids: %w", err)
	}
	list, err := collectBooks(rows)
	if err != nil {
		return nil, err
	}
	for _, b := range list {
		out[b.ID] = b
	}
	return out, nil
}

// Update actualiza todos los campos editables del libro.
func (r *BookRepo) Update(ctx context.Context, b *entity.Book) error {
	query := `
		UPDATE libros SET legacy_id = $2, titulo = $3, autor = $4, editorial = $5, isbn = $6, precio = $7, stock = $8,
		       categoria_id = $9, ubicacion = $10, idioma = $11, estado = $12, anio_publicacion = $13, paginas = $14,
		       descripcion = $15, imagen_portada = $16, notas = $17, destacado = $18, activo = $19, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		b.ID, nullIfEmpty(b.Code), b.Title, b.Author, b.Publisher, b.ISBN, b.Price, b.Stock, b.CategoryID,
		b.Location, b.Language, b.Condition, b.Year, b.Pages, b.Description, b.CoverURL, b.Notes, b.Featured, b.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// Deactivate baja lógica: el libro deja de listarse pero sigue referenciado por pedidos y facturas.
func (r *BookRepo) Deactivate(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `UPDATE libros SET activo = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate book: %w", err)
	}
	return nil
}

func bookFilters(f entity.BookFilter) *filters {
	var fl filters
	if f.OnlyActive {
		fl.addRaw("l.activo")
	}
	if q := textnorm.Fold(f.Query); q != "" {
		fl.add(foldedText+` LIKE $%d`, containsPattern(q))
	}
	if f.CategoryID != 0 {
		fl.add("l.categoria_id = $%d", f.CategoryID)
	}
	if f.Location != "" {
		fl.add("l.ubicacion = $%d", f.Location)
	}
	if f.Featured != nil {
		fl.add("l.destacado = $%d", *f.Featured)
	}
	if f.InStock {
		fl.addRaw("l.stock > 0")
	}
	if f.MinPrice.IsPositive() {
		fl.add("l.precio >= $%d", f.MinPrice)
	}
	return &fl
}

// List lista libros filtrados y paginados junto con el total sin paginar.
func (r *BookRepo) List(ctx context.Context, f entity.BookFilter) ([]*entity.Book, int, error) {
	fl := bookFilters(f)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM libros l`+fl.where(), fl.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	clause, args := fl.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, bookSelect+fl.where()+` ORDER BY l.id`+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	list, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Search búsqueda por texto plegado (sin tildes, minúsculas) en título, autor e ISBN.
func (r *BookRepo) Search(ctx context.Context, folded string, limit int) ([]*entity.Book, error) {
	query := bookSelect + ` WHERE l.activo AND ` + foldedText + ` LIKE $1 ORDER BY l.id LIMIT NULLIF($2, 0)`
	rows, err := r.q.Query(ctx, query, containsPattern(folded), limit)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return collectBooks(rows)
}

// MaxCodeNumber mayor número base entre los códigos con el sufijo dado; 0 si no hay ninguno.
func (r *BookRepo) MaxCodeNumber(ctx context.Context, suffix string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(substring(legacy_id FROM '^([0-9]+)')::bigint), 0)
		FROM libros WHERE legacy_id ~ ('^[0-9]+' || $1 || '$')`, suffix).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("max code number: %w", err)
	}
	return n, nil
}

// ListForFeed libros publicables: activos, con stock y precio mínimo.
func (r *BookRepo) ListForFeed(ctx context.Context, minPrice float64) ([]*entity.Book, error) {
	rows, err := r.q.Query(ctx, bookSelect+` WHERE l.activo AND l.stock > 0 AND l.precio >= $1 ORDER BY l.id`, minPrice)
	if err != nil {
		return nil, fmt.Errorf("list books for feed: %w", err)
	}
	return collectBooks(rows)
}

// ListAll todo el catálogo, incluidos inactivos.
func (r *BookRepo) ListAll(ctx context.Context) ([]*entity.Book, error) {
	rows, err := r.q.Query(ctx, bookSelect+` ORDER BY l.id`)
	if err != nil {
		return nil, fmt.Errorf("list all books: %w", err)
	}
	return collectBooks(rows)
}

// ListBatch página por clave (id > afterID) para recorrer el catálogo completo.
func (r *BookRepo) ListBatch(ctx context.Context, afterID int64, limit int) ([]*entity.Book, error) {
	rows, err := r.q.Query(ctx, bookSelect+` WHERE l.id > $1 ORDER BY l.id LIMIT $2`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list book batch: %w", err)
	}
	return collectBooks(rows)
}

// UpdateText reescribe solo los campos de texto (reparación de codificación).
func (r *BookRepo) UpdateText(ctx context.Context, b *entity.Book) error {
	_, err := r.q.Exec(ctx, `
		UPDATE libros SET titulo = $2, autor = $3, editorial = $4, descripcion = $5, updated_at = now()
		WHERE id = $1`, b.ID, b.Title, b.Author, b.Publisher, b.Description)
	if err != nil {
		return fmt.Errorf("update book text: %w", err)
	}
	return nil
}

// GetStockForUpdate bloquea la fila del libro hasta el fin de la tx. Libro inexistente = stock 0.
func (r *BookRepo) GetStockForUpdate(ctx context.Context, bookID int64) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx, `SELECT stock FROM libros WHERE id = $1 FOR UPDATE`, bookID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get stock for update: %w", err)
	}
	return stock, nil
}

// SetStock fija el stock del libro.
func (r *BookRepo) SetStock(ctx context.Context, bookID int64, stock int) error {
	_, err := r.q.Exec(ctx, `UPDATE libros SET stock = $2, updated_at = now() WHERE id = $1`, bookID, stock)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}
