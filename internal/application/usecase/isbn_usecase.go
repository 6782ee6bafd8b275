package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/catalog"
	"github.com/jhoicas/libreria-api/pkg/logger"
)

// ISBNSources fuentes de metadatos. Cualquiera puede ser nil.
type ISBNSources struct {
	Google      ports.MetadataSource
	OpenLibrary ports.MetadataSource
	BNE         ports.MetadataSource
	Search      ports.MetadataSearcher
	Logger      *logger.Logger
}

// ISBNUseCase rellena los datos de un libro a partir de su ISBN combinando catálogos.
type ISBNUseCase struct {
	google ports.MetadataSource
	ol     ports.MetadataSource
	bne    ports.MetadataSource
	search ports.MetadataSearcher
	log    *logger.Logger
}

func NewISBNUseCase(s ISBNSources) *ISBNUseCase {
	uc := &ISBNUseCase{google: s.Google, ol: s.OpenLibrary, bne: s.BNE, search: s.Search, log: s.Logger}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// Lookup ISBN español: BNE, Google y OpenLibrary en paralelo; la BNE manda en el
// texto y las otras aportan portada, sinopsis y páginas. Resto: Google primero,
// OpenLibrary si faltan editorial, sinopsis o páginas y la BNE si sigue sin editorial.
// (nil, nil) si ninguna fuente conoce el ISBN.
func (uc *ISBNUseCase) Lookup(ctx context.Context, raw string) (*dto.BookMetadataResponse, error) {
	isbn := catalog.NormalizeISBN(raw)
	if !catalog.IsValidISBNLength(isbn) {
		return nil, fmt.Errorf("%w: ISBN %q", domain.ErrInvalidInput, raw)
	}
	var m *ports.BookMetadata
	var err error
	if catalog.IsSpanishISBN(isbn) {
		m, err = uc.lookupSpanish(ctx, isbn)
	} else {
		m, err = uc.lookupWaterfall(ctx, isbn)
	}
	if m == nil {
		if err != nil {
			return nil, fmt.Errorf("buscar ISBN %s: %w", isbn, err)
		}
		return nil, nil
	}
	if m.ISBN == "" {
		m.ISBN = isbn
	}
	return toMetadataResponse(m), nil
}

// Search primer resultado de Google para título y autor.
func (uc *ISBNUseCase) Search(ctx context.Context, in dto.ISBNSearchRequest) (*dto.BookMetadataResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: el título es obligatorio", domain.ErrInvalidInput)
	}
	if uc.search == nil {
		return nil, nil
	}
	m, err := uc.search.SearchBook(ctx, title, strings.TrimSpace(in.Author), strings.TrimSpace(in.Publisher), in.Year)
	if err != nil {
		return nil, fmt.Errorf("buscar libro: %w", err)
	}
	if m == nil {
		return nil, nil
	}
	return toMetadataResponse(m), nil
}

func (uc *ISBNUseCase) fetch(ctx context.Context, name string, src ports.MetadataSource, isbn string) (*ports.BookMetadata, error) {
	if src == nil {
		return nil, nil
	}
	m, err := src.LookupISBN(ctx, isbn)
	if err != nil {
		uc.log.Warn().Err(err).Str("fuente", name).Str("isbn", isbn).Msg("consulta ISBN fallida")
		return nil, err
	}
	return m, nil
}

func (uc *ISBNUseCase) lookupSpanish(ctx context.Context, isbn string) (*ports.BookMetadata, error) {
	var bne, google, ol *ports.BookMetadata
	var errs [3]error
	var g errgroup.Group
	g.Go(func() error { bne, errs[0] = uc.fetch(ctx, "bne", uc.bne, isbn); return nil })
	g.Go(func() error { google, errs[1] = uc.fetch(ctx, "google", uc.google, isbn); return nil })
	g.Go(func() error { ol, errs[2] = uc.fetch(ctx, "openlibrary", uc.ol, isbn); return nil })
	_ = g.Wait()
	err := errors.Join(errs[:]...)

	if bne != nil {
		out := *bne
		if google != nil {
			if google.CoverURL != "" {
				out.CoverURL = google.CoverURL
			}
			if google.Description != "" {
				out.Description = google.Description
			}
			if google.Pages > 0 {
				out.Pages = google.Pages
			}
			// La BNE suele dar solo el año.
			if len(out.PublishedDate) < 5 && len(google.PublishedDate) > 4 {
				out.PublishedDate = google.PublishedDate
			}
		}
		if ol != nil {
			if out.CoverURL == "" {
				out.CoverURL = ol.CoverURL
			}
			if out.Description == "" {
				out.Description = ol.Description
			}
			if out.Pages == 0 {
				out.Pages = ol.Pages
			}
		}
		return &out, nil
	}
	if google == nil {
		return ol, err
	}
	if incomplete(google) {
		return mergeMetadata(google, ol), nil
	}
	return google, nil
}

func (uc *ISBNUseCase) lookupWaterfall(ctx context.Context, isbn string) (*ports.BookMetadata, error) {
	var errs []error
	m, err := uc.fetch(ctx, "google", uc.google, isbn)
	errs = append(errs, err)
	if m != nil && !incomplete(m) {
		return m, nil
	}
	ol, err := uc.fetch(ctx, "openlibrary", uc.ol, isbn)
	errs = append(errs, err)
	m = mergeMetadata(m, ol)
	if m == nil || m.Publisher == "" {
		bne, err := uc.fetch(ctx, "bne", uc.bne, isbn)
		errs = append(errs, err)
		m = mergeMetadata(m, bne)
	}
	return m, errors.Join(errs...)
}

func incomplete(m *ports.BookMetadata) bool {
	return m.Publisher == "" || m.Description == "" || m.Pages == 0
}

// mergeMetadata completa los huecos de target con source; target manda.
func mergeMetadata(target, source *ports.BookMetadata) *ports.BookMetadata {
	if target == nil {
		return source
	}
	if source == nil {
		return target
	}
	out := *target
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&out.ISBN, source.ISBN)
	fill(&out.Title, source.Title)
	fill(&out.Publisher, source.Publisher)
	fill(&out.PublishedDate, source.PublishedDate)
	fill(&out.Description, source.Description)
	fill(&out.CoverURL, source.CoverURL)
	fill(&out.Language, source.Language)
	if len(out.Authors) == 0 {
		out.Authors = source.Authors
	}
	if len(out.Categories) == 0 {
		out.Categories = source.Categories
	}
	if out.Pages == 0 {
		out.Pages = source.Pages
	}
	return &out
}

func toMetadataResponse(m *ports.BookMetadata) *dto.BookMetadataResponse {
	r := &dto.BookMetadataResponse{
		ISBN:          m.ISBN,
		Title:         m.Title,
		Author:        strings.Join(m.Authors, ", "),
		Authors:       m.Authors,
		Publisher:     m.Publisher,
		PublishedDate: m.PublishedDate,
		Pages:         m.Pages,
		Description:   m.Description,
		Categories:    m.Categories,
		CoverURL:      m.CoverURL,
		Language:      m.Language,
	}
	if r.Authors == nil {
		r.Authors = []string{}
	}
	if r.Categories == nil {
		r.Categories = []string{}
	}
	if len(m.PublishedDate) >= 4 {
		if y, err := strconv.Atoi(m.PublishedDate[:4]); err == nil {
			r.Year = y
		}
	}
	return r
}
