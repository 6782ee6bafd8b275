package ports

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/application/dto"
)

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Anthropic, mock) debe implementar esta interfaz; la
// aplicación solo conoce este contrato.
type LLMService interface {
	// SuggestCategory elige, entre allowed, la categoría que mejor describe el libro.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	SuggestCategory(
		ctx context.Context,
		title, author, description string,
		allowed []string,
	) (*dto.CategorySuggestionDTO, error)
}
