package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

// AIUseCase orquesta la sugerencia de categoría asistida por IA.
// Aplica un timeout de 10 segundos en cada llamada al LLM para evitar
// que las latencias externas bloqueen los goroutines del servidor.
type AIUseCase struct {
	llm ports.LLMService
}

// NewAIUseCase construye el caso de uso inyectando el puerto LLMService.
func NewAIUseCase(llm ports.LLMService) *AIUseCase {
	return &AIUseCase{llm: llm}
}

// SuggestCategory pide al LLM una categoría de StandardCategories.
// Las respuestas fuera de la lista se rechazan; se toleran diferencias de tildes y mayúsculas.
func (uc *AIUseCase) SuggestCategory(
	ctx context.Context,
	req dto.SuggestCategoryRequest,
) (*dto.CategorySuggestionDTO, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title es obligatorio", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := uc.llm.SuggestCategory(ctx, req.Title, req.Author, req.Description, entity.StandardCategories)
	if err != nil {
		return nil, fmt.Errorf("sugerencia IA: %w", err)
	}
	name, ok := matchStandardCategory(result.Category)
	if !ok {
		return nil, fmt.Errorf("sugerencia IA: categoría %q fuera de la lista estándar", result.Category)
	}
	result.Category = name
	return result, nil
}

func matchStandardCategory(s string) (string, bool) {
	if entity.IsStandardCategory(s) {
		return s, true
	}
	folded := textnorm.Fold(s)
	for _, c := range entity.StandardCategories {
		if textnorm.Fold(c) == folded {
			return c, true
		}
	}
	return "", false
}
