package entity

// Publisher editorial del catálogo. Los libros guardan el nombre como texto libre;
// esta tabla solo alimenta el autocompletado.
type Publisher struct {
	ID   int64
	Name string
}
