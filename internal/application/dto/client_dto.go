package dto

import "time"

// ClientRequest alta o edición completa de cliente.
type ClientRequest struct {
	Type          string `json:"type" validate:"omitempty,oneof=particular empresa institucion"`
	Name          string `json:"name" validate:"required,min=1,max=150"`
	Surname       string `json:"surname" validate:"omitempty,max=200"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=30"`
	Mobile        string `json:"mobile" validate:"omitempty,max=30"`
	NIF           string `json:"nif" validate:"omitempty,max=20"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code" validate:"omitempty,max=10"`
	Province      string `json:"province"`
	Country       string `json:"country"`
	ContactPerson string `json:"contact_person"`
	Notes         string `json:"notes"`
	Active        *bool  `json:"active"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	Surname       string    `json:"surname"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Mobile        string    `json:"mobile"`
	NIF           string    `json:"nif"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	PostalCode    string    `json:"postal_code"`
	Province      string    `json:"province"`
	Country       string    `json:"country"`
	ContactPerson string    `json:"contact_person"`
	Notes         string    `json:"notes"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
