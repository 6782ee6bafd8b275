package entity

import "time"

// Category representa una categoría del catálogo.
type Category struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	BookCount   int // solo lectura
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StandardCategories lista cerrada de categorías a la que se normaliza el catálogo.
var StandardCategories = []string{
	"Arqueología", "Arte", "Autoayuda y Desarrollo Personal", "Biografías y Memorias", "Ciencia Ficción",
	"Ciencias Naturales (Física, Química, Biología)", "Ciencias Sociales", "Cine", "Cocina y Gastronomía",
	"Cómics y Novela Gráfica", "Crianza y Embarazo", "Deportes", "Derecho", "Diccionarios y Enciclopedias",
	"Economía", "Educación y Pedagogía", "Empresa y Negocios", "Erótica", "Espiritualidad", "Fantasía",
	"Filosofía", "Finanzas e Inversión", "Fotografía", "Historia", "Hogar y Jardín", "Idiomas", "Infantil",
	"Informática", "Ingeniería", "Juvenil (Young Adult)", "Libros de Texto", "Literatura",
	"Manga", "Manualidades", "Música", "Naturaleza y Medio Ambiente", "Novela Histórica", "Novela Negra y Policial",
	"Ocio y Juegos", "Oposiciones", "Otros", "Poesía", "Política", "Psicología", "Religión", "Romántica",
	"Salud y Bienestar", "Teatro", "Tecnología", "Terror", "Thriller y Misterio", "Viajes",
}

// IsStandardCategory indica si name pertenece a StandardCategories (comparación exacta).
func IsStandardCategory(name string) bool {
	for _, c := range StandardCategories {
		if c == name {
			return true
		}
	}
	return false
}
