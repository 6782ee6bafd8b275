package entity

import (
	"strings"
	"time"
)

// Tipos de cliente.
const (
	ClientTypeIndividual  = "particular"
	ClientTypeCompany     = "empresa"
	ClientTypeInstitution = "institucion"
	DefaultCountry        = "España"
)

// Client representa un cliente de la librería (particular, empresa o institución).
type Client struct {
	ID            string
	Type          string
	Name          string
	Surname       string
	Email         string
	Phone         string
	Mobile        string
	NIF           string
	Address       string
	City          string
	PostalCode    string
	Province      string
	Country       string
	ContactPerson string
	Notes         string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName nombre y apellidos separados por un espacio.
func (c *Client) FullName() string {
	if c.Surname == "" {
		return c.Name
	}
	if c.Name == "" {
		return c.Surname
	}
	return c.Name + " " + c.Surname
}

// ContactPhone teléfono preferente (móvil si existe).
func (c *Client) ContactPhone() string {
	if c.Mobile != "" {
		return c.Mobile
	}
	return c.Phone
}

// PostalAddress dirección completa en una línea (dirección, CP y ciudad, provincia, país).
func (c *Client) PostalAddress() string {
	parts := make([]string, 0, 4)
	if c.Address != "" {
		parts = append(parts, c.Address)
	}
	if city := strings.TrimSpace(c.PostalCode + " " + c.City); city != "" {
		parts = append(parts, city)
	}
	if c.Province != "" && c.Province != c.City {
		parts = append(parts, c.Province)
	}
	if c.Country != "" {
		parts = append(parts, c.Country)
	}
	return strings.Join(parts, ", ")
}

// IsValidClientType valida el tipo de cliente.
func IsValidClientType(t string) bool {
	switch t {
	case ClientTypeIndividual, ClientTypeCompany, ClientTypeInstitution:
		return true
	}
	return false
}
