package ports

import "context"

// BookMetadata datos bibliográficos de un catálogo externo.
type BookMetadata struct {
	ISBN          string
	Title         string
	Authors       []string
	Publisher     string
	PublishedDate string // tal como la da la fuente: "2005", "2005-03-01"...
	Pages         int
	Description   string
	Categories    []string
	CoverURL      string
	Language      string
}

// MetadataSource catálogo consultable por ISBN. Devuelve (nil, nil) si no conoce el ISBN.
type MetadataSource interface {
	LookupISBN(ctx context.Context, isbn string) (*BookMetadata, error)
}

// MetadataSearcher búsqueda por título y autor para libros sin ISBN a mano.
// year 0 y publisher vacío no filtran. (nil, nil) sin resultados.
type MetadataSearcher interface {
	SearchBook(ctx context.Context, title, author, publisher string, year int) (*BookMetadata, error)
}
