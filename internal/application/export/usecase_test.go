package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/testutil/fakes"
)

var fixedNow = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

type fixture struct {
	uc       *UseCase
	books    *fakes.Books
	settings *fakes.Settings
	storage  *fakes.Storage
}

func newFixture(t *testing.T, books ...*entity.Book) *fixture {
	t.Helper()
	ctx := context.Background()
	br := fakes.NewBooks(books...)
	cats := fakes.NewCategories(br)
	require.NoError(t, cats.Create(ctx, &entity.Category{Name: "Historia", Active: true}))
	locs := fakes.NewLocations()
	require.NoError(t, locs.Create(ctx, &entity.Location{Name: "Almacén", Active: true}))
	clients := fakes.NewClients(&entity.Client{ID: "c1", Name: "Ana", Surname: "Pérez", Email: "ana@test.es", Active: true})
	orders := fakes.NewOrders(br)
	require.NoError(t, orders.Create(ctx, &entity.Order{
		ClientName: `Librería "El Sur"`, Status: entity.OrderStatusShipped,
		Total: decimal.RequireFromString("25.5"), OrderDate: fixedNow,
	}))
	invoices := fakes.NewInvoices()
	require.NoError(t, invoices.Create(ctx, &entity.Invoice{
		Number: "F2026-00001", OrderID: 1, CustomerName: "Ana Pérez", Status: entity.InvoiceStatusPending,
		TaxRate: decimal.NewFromInt(21), Total: decimal.RequireFromString("25.5"), IssueDate: fixedNow,
	}))

	f := &fixture{books: br, settings: fakes.NewSettings(), storage: fakes.NewStorage()}
	f.uc = NewUseCase(Deps{
		Books: br, Categories: cats, Locations: locs, Clients: clients,
		Orders: orders, Invoices: invoices, Settings: f.settings, Storage: f.storage,
	})
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

func book(id int64, title string, price string, stock int) *entity.Book {
	return &entity.Book{ID: id, Code: "", Title: title, Author: "Autor", Price: decimal.RequireFromString(price), Stock: stock, Active: true}
}

func unzip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func TestNewCSV_BOMComillasYCRLF(t *testing.T) {
	tb := newCSV("A", "B")
	tb.row(`dice "hola"`, "x,y")
	got := string(tb.bytes())

	assert.True(t, strings.HasPrefix(got, "\uFEFF"))
	assert.Equal(t, "\uFEFF\"A\",\"B\"\r\n\"dice \"\"hola\"\"\",\"x,y\"\r\n", got)
}

func TestNormalizeISBN(t *testing.T) {
	cases := map[string]string{
		"978-84-376-0494-7":     "9788437604947",
		" 84 376 0494 X ":       "843760494X",
		"\uFEFF978843760494\u200B7": "9788437604947",
		"12345":                 "",
		"":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeISBN(in), in)
	}
}

func TestEntity_Libros(t *testing.T) {
	b := book(7, "Historia de Roma", "12.5", 3)
	b.ISBN, b.Year, b.Location, b.CategoryName = "9788437604947", 1998, "almacen", "Historia"
	f := newFixture(t, b)

	file, err := f.uc.Entity(context.Background(), EntityBooks)
	require.NoError(t, err)
	assert.Equal(t, "libros_backup_2026-03-09.csv", file.Name)

	lines := strings.Split(strings.TrimPrefix(string(file.Data), "\uFEFF"), "\r\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `"ID","ISBN","Título","Autor"`))
	assert.True(t, strings.HasPrefix(lines[1], `"7","9788437604947","Historia de Roma","Autor","","1998","12.50","3","Historia"`))
	assert.Equal(t, "", lines[2])
}

func TestEntity_PedidosEscapaComillas(t *testing.T) {
	f := newFixture(t)
	file, err := f.uc.Entity(context.Background(), EntityOrders)
	require.NoError(t, err)

	s := string(file.Data)
	assert.Contains(t, s, `"Librería ""El Sur"""`)
	assert.Contains(t, s, `"25.50","Enviado"`)
	assert.Contains(t, s, `"2026-03-09"`)
}

func TestEntity_Categorias(t *testing.T) {
	f := newFixture(t)
	file, err := f.uc.Entity(context.Background(), EntityCategories)
	require.NoError(t, err)
	assert.Contains(t, string(file.Data), `"1","Historia","","Sí"`)
}

func TestEntity_Desconocida(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Entity(context.Background(), "proveedores")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestBackup_IncluyeTodasLasEntidades(t *testing.T) {
	f := newFixture(t, book(1, "Uno", "10", 1))
	file, err := f.uc.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backup_2026-03-09.zip", file.Name)

	files := unzip(t, file.Data)
	for _, name := range Entities {
		assert.Contains(t, files, name+".csv")
	}
	assert.Contains(t, files["clientes.csv"], `"Ana Pérez","ana@test.es"`)
	assert.Contains(t, files["facturas.csv"], `"F2026-00001"`)
}

func TestBuildUniliberFeed_ValidaYReportaErrores(t *testing.T) {
	ok := book(1, "El Quijote", "15", 2)
	ok.Description = "Primera\tparte\ncompleta"
	ok.Publisher, ok.Year, ok.Pages = "Cátedra", 2003, 897
	noTitle := book(2, "  ", "10", 1)
	noPrice := book(3, "Sin precio", "0", 1)
	noStock := book(4, "Agotado", "9", 0)
	noStock.ISBN = "978-84-376-0494-7"

	feed := BuildUniliberFeed([]*entity.Book{ok, noTitle, noPrice, noStock})

	assert.Equal(t, 4, feed.Stats.Total)
	assert.Equal(t, 1, feed.Stats.Exported)
	assert.Equal(t, 3, feed.Stats.Skipped)
	assert.Equal(t, map[string]int{ReasonTitle: 1, ReasonPrice: 1, ReasonStock: 1}, feed.Stats.Reasons)

	want := "\"1\"\t\"El Quijote\"\t\"Primera parte completa\"\t\"NO\"\t\"Cátedra\"\t\"2003\"\t\"Autor\"\t\"Madrid\"\t\"España\"\t15.00\t\"897\"\t\"\"\t\"2\"\n"
	assert.Equal(t, want, string(feed.Rows))

	errs := strings.Split(strings.TrimPrefix(string(feed.Errors), "\uFEFF"), "\r\n")
	assert.Equal(t, "ID;ISBN;Título;Error", errs[0])
	assert.Equal(t, `2;;"";Título faltante`, errs[1])
	assert.Equal(t, `3;;"Sin precio";Precio inválido (0)`, errs[2])
	assert.Equal(t, `4;9788437604947;"Agotado";Stock 0 o inválido`, errs[3])
}

func TestUniliber_GeneraZip(t *testing.T) {
	f := newFixture(t, book(1, "Uno", "10", 1), book(2, "Dos", "0", 1))
	file, stats, err := f.uc.Uniliber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Exported)
	assert.Equal(t, 1, stats.Skipped)

	files := unzip(t, file.Data)
	assert.Contains(t, files[UniliberFile], `"Uno"`)
	assert.Contains(t, files[UniliberErrorsFile], "Precio inválido")
}

func TestUniliber_SinLibros(t *testing.T) {
	f := newFixture(t, book(1, "Agotado", "10", 0))
	_, _, err := f.uc.Uniliber(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBuildAbeBooksFeed(t *testing.T) {
	b := book(1, "", "20", 3)
	b.Code, b.Author, b.ISBN = "N0000928", "", "8437604947"
	b.Description = "  Buen   estado\n con firma "
	b.CoverURL = "https://img.test/portada.jpg"
	cheap := book(2, "Barato", "5", 1)
	cheap.Code = "N0000929"

	data, stats := BuildAbeBooksFeed([]*entity.Book{b, cheap}, 12)

	assert.Equal(t, 1, stats.Exported)
	assert.Equal(t, 1, stats.Skipped)
	want := "\"N0000928\"\t\"Untitled\"\t\"Buen estado con firma\"\t\"https://img.test/portada.jpg\"\t\"\"\t\"\"\t\"Unknown\"\t\"\"\t\"España\"\t20.00\t\"\"\t\"3\"\t\"8437604947\"\r\n"
	assert.Equal(t, want, string(data))
}

func TestCoverOrNo(t *testing.T) {
	assert.Equal(t, "NO", coverOrNo(""))
	assert.Equal(t, "NO", coverOrNo("/img/default-book-cover.png"))
	assert.Equal(t, "NO", coverOrNo("https://x.test/default-book-cover.png"))
	assert.Equal(t, "http://x.test/a.jpg", coverOrNo(" http://x.test/a.jpg "))
}

func TestAbeBooks_UsaPrecioMinimoConfigurado(t *testing.T) {
	f := newFixture(t, book(1, "Caro", "30", 1), book(2, "Medio", "15", 1))
	f.settings.All.Integrations.AbeBooks.FTPS.MinPrice = 20

	file, stats, err := f.uc.AbeBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, AbeBooksFile, file.Name)
	assert.Equal(t, 1, stats.Exported)
	assert.Contains(t, string(file.Data), `"Caro"`)
	assert.NotContains(t, string(file.Data), `"Medio"`)
}

func TestAbeBooks_PrecioMinimoGuardadoCeroUsaConfiguracion(t *testing.T) {
	f := newFixture(t, book(1, "Caro", "30", 1), book(2, "Medio", "15", 1), book(3, "Barato", "5", 1))
	f.settings.All.Integrations.AbeBooks.FTPS.MinPrice = 0
	f.uc.abeMinPrice = 20

	file, stats, err := f.uc.AbeBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Exported)
	assert.NotContains(t, string(file.Data), `"Medio"`)

	// Sin configuración se aplica el mínimo por defecto (12), igual que la sincronización.
	f.uc.abeMinPrice = 0
	file, stats, err = f.uc.AbeBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Exported)
	assert.Contains(t, string(file.Data), `"Medio"`)
	assert.NotContains(t, string(file.Data), `"Barato"`)
}

func TestBuildIberLibroFeed_TraduceCondicion(t *testing.T) {
	b := book(1, "Libro", "10", 1)
	b.Condition = "como nuevo"
	data := string(BuildIberLibroFeed([]*entity.Book{b}))
	assert.Contains(t, data, `"Condición"`)
	assert.Contains(t, data, `"Fine"`)
}

func TestUpload_ClaveYURLFirmada(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.Upload(context.Background(), &File{Name: "a.csv", ContentType: "text/csv", Data: []byte("x")}, nil)
	require.NoError(t, err)

	assert.Equal(t, "exports/2026/03/a.csv", out.Key)
	assert.Equal(t, "https://storage.test/exports/2026/03/a.csv?expires=900", out.DownloadURL)
	assert.Equal(t, 1, out.Size)
	assert.Equal(t, []byte("x"), f.storage.Objects[out.Key])
}

func TestUpload_SinAlmacenamiento(t *testing.T) {
	f := newFixture(t)
	f.uc.storage = nil
	_, err := f.uc.Upload(context.Background(), &File{Name: "a.csv"}, nil)
	assert.True(t, errors.Is(err, domain.ErrIntegrationDisabled))
}

func TestPublishAbeBooksFeed(t *testing.T) {
	f := newFixture(t, book(1, "Caro", "30", 1))
	_, err := f.uc.PublishAbeBooksFeed(context.Background())
	assert.True(t, errors.Is(err, domain.ErrIntegrationDisabled))

	f.settings.All.Integrations.AbeBooks.Enabled = true
	f.settings.All.Integrations.AbeBooks.FTPS.Enabled = true
	out, err := f.uc.PublishAbeBooksFeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "exports/2026/03/"+AbeBooksFile, out.Key)
	assert.Equal(t, 1, out.Stats.Exported)
}
