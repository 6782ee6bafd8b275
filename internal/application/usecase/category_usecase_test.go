package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/testutil/fakes"
)

func TestCategoryCreate_NombreEnTituloYDuplicado(t *testing.T) {
	uc := NewCategoryUseCase(fakes.NewCategories(nil))
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CategoryRequest{Name: "  thriller   y  misterio "})
	require.NoError(t, err)
	assert.Equal(t, "Thriller y Misterio", c.Name)
	assert.True(t, c.Active)

	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "THRILLER Y MISTERIO"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryUpdate(t *testing.T) {
	uc := NewCategoryUseCase(fakes.NewCategories(nil))
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CategoryRequest{Name: "Poesía"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "Teatro"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, a.ID, dto.CategoryRequest{Name: "teatro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	off := false
	got, err := uc.Update(ctx, a.ID, dto.CategoryRequest{Name: "poesía española", Active: &off})
	require.NoError(t, err)
	assert.Equal(t, "Poesía Española", got.Name)
	assert.False(t, got.Active)

	active, err := uc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Teatro", active[0].Name)
}

func TestCategoryDeleteYMerge(t *testing.T) {
	books := seedBooks()
	cats := fakes.NewCategories(books)
	uc := NewCategoryUseCase(cats)
	ctx := context.Background()

	novela, err := uc.Create(ctx, dto.CategoryRequest{Name: "Novela"})
	require.NoError(t, err)
	narrativa, err := uc.Create(ctx, dto.CategoryRequest{Name: "Narrativa"})
	require.NoError(t, err)
	for _, id := range []int64{1, 2} {
		books.Items[id].CategoryID = &novela.ID
	}

	err = uc.Delete(ctx, novela.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Merge(ctx, novela.ID, novela.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Merge(ctx, novela.ID, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	res, err := uc.Merge(ctx, novela.ID, narrativa.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Moved)
	assert.Equal(t, narrativa.ID, *books.Items[1].CategoryID)

	src, err := uc.Get(ctx, novela.ID)
	require.NoError(t, err)
	assert.False(t, src.Active)
	assert.Equal(t, 0, src.BookCount)

	require.NoError(t, uc.Delete(ctx, novela.ID))
	assert.ErrorIs(t, uc.Delete(ctx, novela.ID), domain.ErrNotFound)
}

func TestLocationCRUD(t *testing.T) {
	uc := NewLocationUseCase(fakes.NewLocations())
	ctx := context.Background()

	l, err := uc.Create(ctx, dto.LocationRequest{Name: " Galeón ", Description: "Tienda"})
	require.NoError(t, err)
	assert.Equal(t, "Galeón", l.Name)
	assert.True(t, l.Active)

	off := false
	l, err = uc.Update(ctx, l.ID, dto.LocationRequest{Name: "Galeón", Active: &off})
	require.NoError(t, err)
	assert.False(t, l.Active)

	list, err := uc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, uc.Delete(ctx, l.ID))
	assert.ErrorIs(t, uc.Delete(ctx, l.ID), domain.ErrNotFound)
}

func TestClientCreateNormaliza(t *testing.T) {
	uc := NewClientUseCase(fakes.NewClients())
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.ClientRequest{Name: " Ana ", Surname: "Pérez", Email: " ANA@Test.ES", NIF: "12345678z"})
	require.NoError(t, err)
	assert.Equal(t, entity.ClientTypeIndividual, c.Type)
	assert.Equal(t, "ana@test.es", c.Email)
	assert.Equal(t, "12345678Z", c.NIF)
	assert.Equal(t, entity.DefaultCountry, c.Country)
	assert.Equal(t, "Ana Pérez", c.FullName)

	_, err = uc.Create(ctx, dto.ClientRequest{Name: "X", Type: "ong"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClientListYDelete(t *testing.T) {
	uc := NewClientUseCase(fakes.NewClients(
		&entity.Client{ID: "1", Name: "Ana", Surname: "Zamora"},
		&entity.Client{ID: "2", Name: "Luis", Surname: "Bravo Álvarez", Phone: "600111222"},
	))
	ctx := context.Background()

	out, err := uc.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
	assert.Equal(t, "Luis", out.Items[0].Name)

	out, err = uc.List(ctx, "ALVAREZ", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page.Total)

	require.NoError(t, uc.Delete(ctx, "1"))
	assert.ErrorIs(t, uc.Delete(ctx, "1"), domain.ErrNotFound)
}

func TestClientMatchOrCreate(t *testing.T) {
	repo := fakes.NewClients(
		&entity.Client{ID: "1", Name: "Ana", Surname: "Pérez García", Phone: "600111222"},
		&entity.Client{ID: "2", Name: "Ana", Surname: "Pérez López"},
	)
	uc := NewClientUseCase(repo)
	ctx := context.Background()

	c, created, err := uc.MatchOrCreate(ctx, "", "", "600111222", "", entity.Client{})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "1", c.ID)

	// Dos coincidencias por nombre: se crea un cliente nuevo.
	c, created, err = uc.MatchOrCreate(ctx, "ana perez", "", "", "", entity.Client{City: "Madrid"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ana", c.Name)
	assert.Equal(t, "perez", c.Surname)
	assert.Equal(t, "Madrid", c.City)
	assert.Equal(t, entity.DefaultCountry, c.Country)
	assert.Len(t, repo.Items, 3)

	c, created, err = uc.MatchOrCreate(ctx, "", "", "", "nuevo@test.es", entity.Client{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Cliente sin nombre", c.Name)
	assert.Equal(t, "nuevo@test.es", c.Email)

	matches, err := uc.FindMatches(ctx, "", "", "")
	require.NoError(t, err)
	assert.Nil(t, matches)
}

func TestClientMatchOrCreate_FijoYMovilSeparados(t *testing.T) {
	repo := fakes.NewClients()
	uc := NewClientUseCase(repo)

	c, created, err := uc.MatchOrCreate(context.Background(), "Laura Gómez", " 958000000 ", "600111222", "", entity.Client{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "958000000", c.Phone)
	assert.Equal(t, "600111222", c.Mobile)

	// Solo fijo: no se copia al móvil.
	c, created, err = uc.MatchOrCreate(context.Background(), "Pedro Ruiz", "913000000", "", "", entity.Client{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "913000000", c.Phone)
	assert.Empty(t, c.Mobile)
}
