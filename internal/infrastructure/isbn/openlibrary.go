package isbn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/jhoicas/libreria-api/internal/application/ports"
)

var _ ports.MetadataSource = (*OpenLibrary)(nil)

const openLibraryURL = "https://openlibrary.org/api/books"

// OpenLibrary API de libros de openlibrary.org (jscmd=data).
type OpenLibrary struct {
	httpSource
}

func NewOpenLibrary(timeout time.Duration) *OpenLibrary {
	return &OpenLibrary{httpSource: newHTTPSource("openlibrary", openLibraryURL, timeout)}
}

type olName struct {
	Name string `json:"name"`
}

type olBook struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Authors       []olName `json:"authors"`
	Publishers    []olName `json:"publishers"`
	PublishDate   string   `json:"publish_date"`
	NumberOfPages int      `json:"number_of_pages"`
	Notes         string   `json:"notes"`
	Subjects      []olName `json:"subjects"`
	Cover         struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
}

func (o *OpenLibrary) LookupISBN(ctx context.Context, isbn string) (*ports.BookMetadata, error) {
	key := "ISBN:" + isbn
	q := url.Values{"bibkeys": {key}, "format": {"json"}, "jscmd": {"data"}}
	body, err := o.get(ctx, o.baseURL+"?"+q.Encode())
	if err != nil || body == nil {
		return nil, err
	}
	var res map[string]olBook
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("openlibrary: deserializar respuesta: %w", err)
	}
	b, ok := res[key]
	if !ok {
		return nil, nil
	}
	m := &ports.BookMetadata{
		ISBN:          isbn,
		Title:         CleanTitle(fullTitle(b.Title, b.Subtitle)),
		PublishedDate: b.PublishDate,
		Pages:         b.NumberOfPages,
		Description:   b.Notes,
		Language:      "es",
	}
	for _, a := range b.Authors {
		m.Authors = append(m.Authors, a.Name)
	}
	if len(b.Publishers) > 0 {
		m.Publisher = b.Publishers[0].Name
	}
	for i, s := range b.Subjects {
		if i == 3 {
			break
		}
		m.Categories = append(m.Categories, s.Name)
	}
	switch {
	case b.Cover.Large != "":
		m.CoverURL = b.Cover.Large
	case b.Cover.Medium != "":
		m.CoverURL = b.Cover.Medium
	default:
		m.CoverURL = b.Cover.Small
	}
	return m, nil
}
