package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/libreria-api/internal/application/dto"
)

// categorySystemPrompt instrucciones comunes a todos los proveedores. %s = lista de categorías.
const categorySystemPrompt = `Eres un librero experto que clasifica libros para el catálogo de una librería de viejo en España.
Elige UNA categoría de esta lista cerrada (copia el nombre exacto):
%s

Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown) con esta estructura exacta:
{
  "category": "<nombre exacto de la lista>",
  "confidence": <número decimal entre 0.0 y 1.0>,
  "reasoning": "<explicación breve en español, máximo 200 caracteres>"
}

Reglas:
- Si dudas entre varias, elige la más específica.
- Si no encaja ninguna, usa "Otros".
- confidence: 0.9–1.0 = alta certeza, 0.7–0.89 = probable, <0.7 = estimado.`

// categoryPayload JSON que esperamos recibir del modelo.
type categoryPayload struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

func systemPrompt(allowed []string) string {
	return fmt.Sprintf(categorySystemPrompt, "- "+strings.Join(allowed, "\n- "))
}

func userPrompt(title, author, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Título: %s", title)
	if author != "" {
		fmt.Fprintf(&b, "\nAutor: %s", author)
	}
	if description != "" {
		fmt.Fprintf(&b, "\nDescripción: %s", truncate(description, 1500))
	}
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// parseSuggestion interpreta la respuesta libre del modelo. La validación contra la lista
// cerrada la hace el caso de uso.
func parseSuggestion(raw string) (*dto.CategorySuggestionDTO, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", raw)
	}
	var p categoryPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de categoría: %w (JSON extraído: %s)", err, clean)
	}
	if strings.TrimSpace(p.Category) == "" {
		return nil, fmt.Errorf("AI: el modelo no devolvió categoría")
	}
	confidence := p.Confidence
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	return &dto.CategorySuggestionDTO{
		Category:   strings.TrimSpace(p.Category),
		Confidence: confidence,
		Reasoning:  p.Reasoning,
	}, nil
}

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Primero quita bloques de código markdown y luego captura el primer { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
