package entity

import "time"

// Location representa una ubicación física o virtual donde se guarda el stock (tienda, almacén, marketplace).
type Location struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
}
