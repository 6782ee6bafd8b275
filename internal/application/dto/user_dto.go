package dto

import "time"

// RegisterRequest registro de un cliente de la tienda web.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

// CreateUserRequest alta de usuario por un administrador.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Role     string `json:"role" validate:"required,oneof=super_admin admin editor visualizador cliente"`
}

// ChangeRoleRequest cambio de rol.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=super_admin admin editor visualizador cliente"`
}

// SetActiveRequest activa o desactiva un usuario.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// ResetPasswordRequest nueva contraseña fijada por un administrador.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RoleResponse rol con su nivel y permisos.
type RoleResponse struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Level       int      `json:"level"`
	Permissions []string `json:"permissions"`
}
