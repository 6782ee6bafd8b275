package isbn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/libreria-api/internal/application/ports"
)

var (
	_ ports.MetadataSource   = (*GoogleBooks)(nil)
	_ ports.MetadataSearcher = (*GoogleBooks)(nil)
)

const googleBooksURL = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooks API de volúmenes de Google Books.
type GoogleBooks struct {
	httpSource
	apiKey string
}

// NewGoogleBooks apiKey puede ir vacía.
func NewGoogleBooks(apiKey string, timeout time.Duration) *GoogleBooks {
	return &GoogleBooks{httpSource: newHTTPSource("google books", googleBooksURL, timeout), apiKey: apiKey}
}

type googleVolumes struct {
	Items []struct {
		VolumeInfo googleVolume `json:"volumeInfo"`
	} `json:"items"`
}

type googleVolume struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	PageCount           int      `json:"pageCount"`
	Description         string   `json:"description"`
	Categories          []string `json:"categories"`
	Language            string   `json:"language"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

func (g *GoogleBooks) LookupISBN(ctx context.Context, isbn string) (*ports.BookMetadata, error) {
	v, err := g.first(ctx, url.Values{"q": {"isbn:" + isbn}})
	if err != nil || v == nil {
		return nil, err
	}
	m := v.metadata()
	m.ISBN = isbn
	return m, nil
}

// SearchBook primer volumen que casa con título, autor y, si se dan, editorial y año.
func (g *GoogleBooks) SearchBook(ctx context.Context, title, author, publisher string, year int) (*ports.BookMetadata, error) {
	parts := []string{"intitle:" + title}
	if author != "" {
		parts = append(parts, "inauthor:"+author)
	}
	if publisher != "" {
		parts = append(parts, "inpublisher:"+publisher)
	}
	if year > 0 {
		parts = append(parts, strconv.Itoa(year))
	}
	v, err := g.first(ctx, url.Values{"q": {strings.Join(parts, " ")}, "maxResults": {"1"}})
	if err != nil || v == nil {
		return nil, err
	}
	m := v.metadata()
	m.ISBN = v.isbn()
	return m, nil
}

func (g *GoogleBooks) first(ctx context.Context, q url.Values) (*googleVolume, error) {
	if g.apiKey != "" {
		q.Set("key", g.apiKey)
	}
	body, err := g.get(ctx, g.baseURL+"?"+q.Encode())
	if err != nil || body == nil {
		return nil, err
	}
	var res googleVolumes
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("google books: deserializar respuesta: %w", err)
	}
	if len(res.Items) == 0 {
		return nil, nil
	}
	return &res.Items[0].VolumeInfo, nil
}

func (v *googleVolume) metadata() *ports.BookMetadata {
	lang := v.Language
	if lang == "" {
		lang = "es"
	}
	return &ports.BookMetadata{
		Title:         CleanTitle(fullTitle(v.Title, v.Subtitle)),
		Authors:       v.Authors,
		Publisher:     v.Publisher,
		PublishedDate: v.PublishedDate,
		Pages:         v.PageCount,
		Description:   v.Description,
		Categories:    v.Categories,
		CoverURL:      strings.Replace(v.ImageLinks.Thumbnail, "http:", "https:", 1),
		Language:      lang,
	}
}

// isbn prefiere ISBN_13 sobre ISBN_10.
func (v *googleVolume) isbn() string {
	var isbn10 string
	for _, id := range v.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			return strings.ReplaceAll(id.Identifier, "-", "")
		case "ISBN_10":
			isbn10 = strings.ReplaceAll(id.Identifier, "-", "")
		}
	}
	return isbn10
}
