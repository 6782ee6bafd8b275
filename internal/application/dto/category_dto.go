package dto

import "time"

// CategoryRequest alta o edición de categoría.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Active      *bool  `json:"active"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	BookCount   int       `json:"book_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// MergeCategoriesRequest mueve los libros de from a into y desactiva from.
type MergeCategoriesRequest struct {
	From int64 `json:"from" validate:"required,gt=0"`
	Into int64 `json:"into" validate:"required,gt=0,nefield=From"`
}

// MergeCategoriesResponse libros reasignados.
type MergeCategoriesResponse struct {
	Moved int64 `json:"moved"`
}

// SuggestCategoryRequest datos del libro para sugerir categoría estándar.
type SuggestCategoryRequest struct {
	Title       string `json:"title" validate:"required,min=1"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

// CategorySuggestionDTO respuesta de la sugerencia (categoría de la lista estándar).
type CategorySuggestionDTO struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// LocationRequest alta o edición de ubicación.
type LocationRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Active      *bool  `json:"active"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublisherRequest alta o edición de editorial.
type PublisherRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// PublisherResponse salida de una editorial.
type PublisherResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
