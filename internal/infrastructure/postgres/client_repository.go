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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre la tabla clientes.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de clientes. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientSelect = `
	SELECT id::text, tipo, nombre, apellidos, email, telefono, movil, nif, direccion, ciudad, codigo_postal,
	       provincia, pais, persona_contacto, notas, activo, created_at, updated_at
	FROM clientes`

const clientFolded = `lower(unaccent(nombre || ' ' || apellidos || ' ' || email || ' ' || telefono || ' ' || movil))`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.Type, &c.Name, &c.Surname, &c.Email, &c.Phone, &c.Mobile, &c.NIF, &c.Address,
		&c.City, &c.PostalCode, &c.Province, &c.Country, &c.ContactPerson, &c.Notes, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectClients(rows pgx.Rows) ([]*entity.Client, error) {
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Create persiste un cliente con el ID generado por la aplicación.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clientes (id, tipo, nombre, apellidos, email, telefono, movil, nif, direccion, ciudad, codigo_postal,
		                      provincia, pais, persona_contacto, notas, activo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		c.ID, c.Type, c.Name, c.Surname, c.Email, c.Phone, c.Mobile, c.NIF, c.Address, c.City, c.PostalCode,
		c.Province, c.Country, c.ContactPerson, c.Notes, c.Active,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, clientSelect+` WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Update actualiza los datos del cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clientes SET tipo = $2, nombre = $3, apellidos = $4, email = $5, telefono = $6, movil = $7, nif = $8,
		       direccion = $9, ciudad = $10, codigo_postal = $11, provincia = $12, pais = $13, persona_contacto = $14,
		       notas = $15, activo = $16, updated_at = now()
		WHERE id::text = $1`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Type, c.Name, c.Surname, c.Email, c.Phone, c.Mobile, c.NIF, c.Address, c.City, c.PostalCode,
		c.Province, c.Country, c.ContactPerson, c.Notes, c.Active,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Delete borra el cliente; los pedidos y facturas quedan sin cliente asociado.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM clientes WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordenado por apellidos y nombre, con búsqueda sin tildes.
func (r *ClientRepo) List(ctx context.Context, query string, limit, offset int) ([]*entity.Client, int, error) {
	var fl filters
	if q := textnorm.Fold(query); q != "" {
		fl.add(clientFolded+` LIKE $%d`, containsPattern(q))
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clientes`+fl.where(), fl.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}
	clause, args := fl.page(limit, offset)
	rows, err := r.q.Query(ctx, clientSelect+fl.where()+` ORDER BY apellidos, nombre`+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	list, err := collectClients(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// FindCandidates posibles duplicados: nombre contenido, mismo teléfono o mismo email.
func (r *ClientRepo) FindCandidates(ctx context.Context, name, phone, email string) ([]*entity.Client, error) {
	query := clientSelect + `
		WHERE ($1 <> '' AND lower(unaccent(nombre || ' ' || apellidos)) LIKE $2)
		   OR ($3 <> '' AND (telefono = $3 OR movil = $3))
		   OR ($4 <> '' AND lower(email) = lower($4))
		ORDER BY apellidos, nombre`
	folded := textnorm.Fold(name)
	rows, err := r.q.Query(ctx, query, folded, containsPattern(folded), phone, email)
	if err != nil {
		return nil, fmt.Errorf("find client candidates: %w", err)
	}
	return collectClients(rows)
}

// ListAll todos los clientes (exportación).
func (r *ClientRepo) ListAll(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, clientSelect+` ORDER BY apellidos, nombre`)
	if err != nil {
		return nil, fmt.Errorf("list all clients: %w", err)
	}
	return collectClients(rows)
}
