package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// RoleUseCase catálogo de roles y resolución de permisos.
type RoleUseCase struct {
	repo repository.RoleRepository
}

// NewRoleUseCase construye el caso de uso. repo puede ser nil (roles por defecto).
func NewRoleUseCase(repo repository.RoleRepository) *RoleUseCase {
	return &RoleUseCase{repo: repo}
}

// Get rol por nombre; si no está persistido se usa el catálogo por defecto.
func (uc *RoleUseCase) Get(ctx context.Context, name string) (*entity.Role, error) {
	if uc.repo != nil {
		r, err := uc.repo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if r != nil {
			return r, nil
		}
	}
	for _, r := range entity.DefaultRoles() {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, nil
}

// PermissionsFor permisos del rol (vacío si el rol no existe).
func (uc *RoleUseCase) PermissionsFor(ctx context.Context, role string) ([]string, error) {
	r, err := uc.Get(ctx, role)
	if err != nil || r == nil {
		return []string{}, err
	}
	return r.Permissions, nil
}

// HasPermission indica si el rol del usuario incluye perm.
func (uc *RoleUseCase) HasPermission(ctx context.Context, role, perm string) (bool, error) {
	r, err := uc.Get(ctx, role)
	if err != nil || r == nil {
		return false, err
	}
	return r.HasPermission(perm), nil
}

func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles := entity.DefaultRoles()
	if uc.repo != nil {
		list, err := uc.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(list) > 0 {
			roles = list
		}
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.RoleResponse{Name: r.Name, DisplayName: r.DisplayName, Level: r.Level, Permissions: r.Permissions})
	}
	return out, nil
}

// CanAssign un usuario solo puede asignar roles de jerarquía estrictamente inferior
// a la suya; super_admin puede asignar cualquiera.
func CanAssign(actorRole, targetRole string) bool {
	if actorRole == entity.RoleSuperAdmin {
		return entity.RoleLevel(targetRole) > 0
	}
	actor, target := entity.RoleLevel(actorRole), entity.RoleLevel(targetRole)
	return actor > 0 && target > actor
}

// UserUseCase administración de usuarios desde el back-office.
type UserUseCase struct {
	repo  repository.UserRepository
	roles *RoleUseCase
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, roles *RoleUseCase) *UserUseCase {
	return &UserUseCase{repo: repo, roles: roles}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	return uc.toResponse(ctx, user), nil
}

// Create alta de usuario por un administrador (admin-create-user).
func (uc *UserUseCase) Create(ctx context.Context, actorRole string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !CanAssign(actorRole, in.Role) {
		return nil, fmt.Errorf("%w: no puede asignar el rol %s", domain.ErrForbidden, in.Role)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if existing, _ := uc.repo.GetByEmail(ctx, email); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, user), nil
}

// List usuarios filtrados por rol.
func (uc *UserUseCase) List(ctx context.Context, role string, limit, offset int) (*dto.UserListResponse, error) {
	list, total, err := uc.repo.List(ctx, role, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *uc.toResponse(ctx, u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.NewPageResponse(limit, offset, total)}, nil
}

// ChangeRole cambia el rol de target. El actor debe poder gestionar tanto el rol
// actual del usuario como el nuevo.
func (uc *UserUseCase) ChangeRole(ctx context.Context, actorID, actorRole, targetID, role string) (*dto.UserResponse, error) {
	user, err := uc.manageable(ctx, actorID, actorRole, targetID)
	if err != nil {
		return nil, err
	}
	if !CanAssign(actorRole, role) {
		return nil, fmt.Errorf("%w: no puede asignar el rol %s", domain.ErrForbidden, role)
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, user), nil
}

// SetActive activa o desactiva un usuario.
func (uc *UserUseCase) SetActive(ctx context.Context, actorID, actorRole, targetID string, active bool) (*dto.UserResponse, error) {
	user, err := uc.manageable(ctx, actorID, actorRole, targetID)
	if err != nil {
		return nil, err
	}
	user.Active = active
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, user), nil
}

// ResetPassword fija una nueva contraseña.
func (uc *UserUseCase) ResetPassword(ctx context.Context, actorID, actorRole, targetID, password string) error {
	if _, err := uc.manageable(ctx, actorID, actorRole, targetID); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.repo.UpdatePassword(ctx, targetID, string(hash))
}

// manageable carga el usuario objetivo comprobando que el actor tiene jerarquía sobre él.
func (uc *UserUseCase) manageable(ctx context.Context, actorID, actorRole, targetID string) (*entity.User, error) {
	if actorID == targetID {
		return nil, fmt.Errorf("%w: no puede modificar su propio usuario", domain.ErrForbidden)
	}
	user, err := uc.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !CanAssign(actorRole, user.Role) {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

func (uc *UserUseCase) toResponse(ctx context.Context, u *entity.User) *dto.UserResponse {
	perms := []string{}
	if uc.roles != nil {
		perms, _ = uc.roles.PermissionsFor(ctx, u.Role)
	}
	return ToUserResponse(u, perms)
}

// ToUserResponse mapea el usuario (sin hash) a su DTO.
func ToUserResponse(u *entity.User, perms []string) *dto.UserResponse {
	if u == nil {
		return nil
	}
	if perms == nil {
		perms = []string{}
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        u.Role,
		Permissions: perms,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
