package dto

// Tamaños de página de los listados.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest paginación para listados (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage normaliza la página: límite por defecto, tope MaxPageSize y offset no negativo.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página; HasMore indica si quedan filas tras esta página.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NewPageResponse calcula los metadatos a partir del total de filas.
func NewPageResponse(limit, offset, total int) PageResponse {
	return PageResponse{Limit: limit, Offset: offset, Total: total, HasMore: offset+limit < total}
}

// ErrorResponse cuerpo de error de la API. Code es estable para el frontend; Message va en español.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
