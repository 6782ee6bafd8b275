package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)
var _ repository.RoleRepository = (*RoleRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userSelect = `
	SELECT id::text, email, password_hash, nombre, telefono, rol, activo, ultimo_acceso, created_at, updated_at
	FROM usuarios`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role, &u.Active,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario. Email repetido = ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO usuarios (id, email, password_hash, nombre, telefono, rol, activo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Phone, user.Role, user.Active,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email (ya normalizado a minúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza perfil, rol y estado. La contraseña va por UpdatePassword.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE usuarios SET email = $2, nombre = $3, telefono = $4, rol = $5, activo = $6, updated_at = now()
		WHERE id::text = $1`,
		user.ID, user.Email, user.Name, user.Phone, user.Role, user.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	_, err := r.pool.Exec(ctx, `UPDATE usuarios SET password_hash = $2, updated_at = now() WHERE id::text = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// TouchLogin registra la fecha del último acceso.
func (r *UserRepo) TouchLogin(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE usuarios SET ultimo_acceso = now() WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}

// List lista usuarios, opcionalmente de un rol, con el total.
func (r *UserRepo) List(ctx context.Context, role string, limit, offset int) ([]*entity.User, int, error) {
	var fl filters
	if role != "" {
		fl.add("rol = $%d", role)
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios`+fl.where(), fl.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	clause, args := fl.page(limit, offset)
	rows, err := r.pool.Query(ctx, userSelect+fl.where()+` ORDER BY created_at DESC`+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// RoleRepo catálogo de roles sembrado por la migración inicial.
type RoleRepo struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepo {
	return &RoleRepo{pool: pool}
}

const roleSelect = `SELECT id::text, nombre, nombre_mostrado, nivel, permisos, activo, sistema FROM roles`

func scanRole(row pgx.Row) (*entity.Role, error) {
	var ro entity.Role
	if err := row.Scan(&ro.ID, &ro.Name, &ro.DisplayName, &ro.Level, &ro.Permissions, &ro.Active, &ro.System); err != nil {
		return nil, err
	}
	return &ro, nil
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	ro, err := scanRole(r.pool.QueryRow(ctx, roleSelect+` WHERE nombre = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return ro, nil
}

// List roles por nivel jerárquico (1 = máximo).
func (r *RoleRepo) List(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.pool.Query(ctx, roleSelect+` ORDER BY nivel`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		ro, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, ro)
	}
	return list, rows.Err()
}
