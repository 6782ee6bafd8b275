package entity

import "time"

// Límites de cantidad por línea de carrito.
const (
	CartMinQuantity = 1
	CartMaxQuantity = 10000
)

// CartItem línea del carrito persistido de un usuario.
type CartItem struct {
	ID        string
	UserID    string
	BookID    int64
	Quantity  int
	Book      *Book // solo lectura
	CreatedAt time.Time
	UpdatedAt time.Time
}
