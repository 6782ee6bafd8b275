package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
)

// fuenteFija devuelve siempre el mismo resultado y cuenta las consultas.
type fuenteFija struct {
	m     *ports.BookMetadata
	err   error
	calls atomic.Int32
}

func (f *fuenteFija) LookupISBN(_ context.Context, isbn string) (*ports.BookMetadata, error) {
	f.calls.Add(1)
	if f.m == nil {
		return nil, f.err
	}
	cp := *f.m
	cp.ISBN = isbn
	return &cp, f.err
}

func (f *fuenteFija) SearchBook(_ context.Context, title, _, _ string, _ int) (*ports.BookMetadata, error) {
	f.calls.Add(1)
	if f.m == nil {
		return nil, f.err
	}
	cp := *f.m
	cp.Title = title
	return &cp, f.err
}

func TestISBNLookup_EspanolBNEMandaEnElTexto(t *testing.T) {
	bne := &fuenteFija{m: &ports.BookMetadata{Title: "La Regenta", Authors: []string{"Alas, Leopoldo"}, Publisher: "Cátedra", PublishedDate: "1984"}}
	google := &fuenteFija{m: &ports.BookMetadata{Title: "La regenta (Letras Hispánicas)", Publisher: "Ediciones Cátedra",
		PublishedDate: "1984-05-01", Description: "Sinopsis", Pages: 900, CoverURL: "https://g/x.jpg"}}
	ol := &fuenteFija{m: &ports.BookMetadata{Description: "Notas OL", CoverURL: "https://ol/x.jpg", Pages: 1}}
	uc := NewISBNUseCase(ISBNSources{Google: google, OpenLibrary: ol, BNE: bne})

	got, err := uc.Lookup(context.Background(), "978-84-376-0494-7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "9788437604947", got.ISBN)
	assert.Equal(t, "La Regenta", got.Title)
	assert.Equal(t, "Cátedra", got.Publisher)
	assert.Equal(t, "Alas, Leopoldo", got.Author)
	assert.Equal(t, "Sinopsis", got.Description)
	assert.Equal(t, 900, got.Pages)
	assert.Equal(t, "https://g/x.jpg", got.CoverURL)
	assert.Equal(t, "1984-05-01", got.PublishedDate)
	assert.Equal(t, 1984, got.Year)
	assert.EqualValues(t, 1, bne.calls.Load())
	assert.EqualValues(t, 1, google.calls.Load())
	assert.EqualValues(t, 1, ol.calls.Load(), "las tres fuentes se consultan a la vez")
}

func TestISBNLookup_EspanolSinBNECompletaGoogleConOpenLibrary(t *testing.T) {
	google := &fuenteFija{m: &ports.BookMetadata{Title: "Niebla", Description: "Nivola"}}
	ol := &fuenteFija{m: &ports.BookMetadata{Title: "Otro título", Publisher: "Alianza", Pages: 300}}
	uc := NewISBNUseCase(ISBNSources{Google: google, OpenLibrary: ol, BNE: &fuenteFija{err: errors.New("bne caída")}})

	got, err := uc.Lookup(context.Background(), "8420633119")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Niebla", got.Title)
	assert.Equal(t, "Alianza", got.Publisher)
	assert.Equal(t, 300, got.Pages)
}

func TestISBNLookup_InternacionalEnCascada(t *testing.T) {
	completo := &ports.BookMetadata{Title: "Dune", Publisher: "Ace", Description: "Arrakis", Pages: 600}
	google := &fuenteFija{m: completo}
	ol := &fuenteFija{}
	bne := &fuenteFija{}
	uc := NewISBNUseCase(ISBNSources{Google: google, OpenLibrary: ol, BNE: bne})

	got, err := uc.Lookup(context.Background(), "9780441172719")
	require.NoError(t, err)
	assert.Equal(t, "Ace", got.Publisher)
	assert.Zero(t, ol.calls.Load(), "Google completo no consulta más fuentes")
	assert.Zero(t, bne.calls.Load())

	google.m = &ports.BookMetadata{Title: "Dune"}
	ol.m = &ports.BookMetadata{Pages: 612}
	bne.m = &ports.BookMetadata{Publisher: "Debolsillo", Title: "Dune (es)"}
	got, err = uc.Lookup(context.Background(), "9780441172719")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 612, got.Pages)
	assert.Equal(t, "Debolsillo", got.Publisher, "sin editorial se recurre a la BNE")
	assert.EqualValues(t, 1, bne.calls.Load())
}

func TestISBNLookup_NoEncontradoYErrores(t *testing.T) {
	ctx := context.Background()
	uc := NewISBNUseCase(ISBNSources{Google: &fuenteFija{}, OpenLibrary: &fuenteFija{}, BNE: &fuenteFija{}})
	got, err := uc.Lookup(ctx, "9780000000002")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = uc.Lookup(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	caida := errors.New("sin red")
	uc = NewISBNUseCase(ISBNSources{Google: &fuenteFija{err: caida}, OpenLibrary: &fuenteFija{}, BNE: &fuenteFija{}})
	_, err = uc.Lookup(ctx, "9780000000002")
	assert.ErrorIs(t, err, caida, "un fallo sin resultados no se confunde con no encontrado")
}

func TestISBNSearch_TituloAutor(t *testing.T) {
	search := &fuenteFija{m: &ports.BookMetadata{ISBN: "9788437601267", Authors: []string{"Miguel de Unamuno"}}}
	uc := NewISBNUseCase(ISBNSources{Search: search})
	ctx := context.Background()

	got, err := uc.Search(ctx, dto.ISBNSearchRequest{Title: " Niebla ", Author: "Unamuno"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "9788437601267", got.ISBN)
	assert.Equal(t, "Niebla", got.Title)
	assert.Equal(t, []string{}, got.Categories)

	_, err = uc.Search(ctx, dto.ISBNSearchRequest{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err = NewISBNUseCase(ISBNSources{}).Search(ctx, dto.ISBNSearchRequest{Title: "Niebla"})
	require.NoError(t, err)
	assert.Nil(t, got)
}
