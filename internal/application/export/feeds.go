package export

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/catalog"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

// Nombres de los ficheros de feed.
const (
	UniliberFile       = "uniliber.txt"
	UniliberErrorsFile = "errores_exportacion.csv"
	AbeBooksFile       = "abebooks_inventory.txt"
)

// Motivos de exclusión del feed de Uniliber.
const (
	ReasonTitle = "title"
	ReasonPrice = "price"
	ReasonStock = "stock"
)

var isbnNoise = regexp.MustCompile(`[-\s\x{FEFF}\x{200B}]+`)

// NormalizeISBN quita guiones, espacios y caracteres invisibles; devuelve ""
// si el resultado no tiene 10 ni 13 caracteres.
func NormalizeISBN(isbn string) string {
	clean := strings.TrimSpace(isbnNoise.ReplaceAllString(isbn, ""))
	if n := len(clean); n == 10 || n == 13 {
		return clean
	}
	return ""
}

// UniliberFeed contenido del feed de Uniliber y su informe de errores.
type UniliberFeed struct {
	Rows   []byte
	Errors []byte
	Stats  dto.ExportStats
}

// BuildUniliberFeed genera las filas TSV sin cabecera. Los libros sin título,
// con precio no positivo o sin stock pasan al informe de errores.
func BuildUniliberFeed(books []*entity.Book) *UniliberFeed {
	rows := &table{sep: "\t", eol: "\n"}
	errs := &table{sep: ";", eol: "\r\n"}
	errs.buf.WriteString(bom)
	errs.raw("ID", "ISBN", "Título", "Error")

	stats := dto.ExportStats{Total: len(books), Reasons: map[string]int{}}
	reject := func(b *entity.Book, isbn, title, reason, msg string) {
		stats.Skipped++
		stats.Reasons[reason]++
		errs.raw(itoa(b.ID), isbn, quote(title), msg)
	}

	for _, b := range books {
		isbn := NormalizeISBN(b.ISBN)
		title := strings.TrimSpace(b.Title)
		switch {
		case title == "":
			reject(b, isbn, "", ReasonTitle, "Título faltante")
			continue
		case !b.Price.IsPositive():
			reject(b, isbn, title, ReasonPrice, fmt.Sprintf("Precio inválido (%s)", b.Price.String()))
			continue
		case b.Stock <= 0:
			reject(b, isbn, title, ReasonStock, "Stock 0 o inválido")
			continue
		}

		desc := strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(b.Description)
		rows.raw(
			quote(itoa(b.ID)),
			quote(title),
			quote(desc),
			quote("NO"),
			quote(b.Publisher),
			quote(optInt(b.Year)),
			quote(b.Author),
			quote("Madrid"),
			quote(entity.DefaultCountry),
			money(b.Price),
			quote(optInt(b.Pages)),
			quote(""),
			quote(itoa(int64(b.Stock))),
		)
		stats.Exported++
	}
	return &UniliberFeed{Rows: rows.bytes(), Errors: errs.bytes(), Stats: stats}
}

// Uniliber genera el ZIP con uniliber.txt y errores_exportacion.csv.
func (uc *UseCase) Uniliber(ctx context.Context) (*File, *dto.ExportStats, error) {
	books, err := uc.books.ListForFeed(ctx, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("export uniliber: %w", err)
	}
	if len(books) == 0 {
		return nil, nil, fmt.Errorf("%w: no hay libros con stock para exportar", domain.ErrNotFound)
	}
	feed := BuildUniliberFeed(books)
	data, err := buildZip([]zipEntry{
		{Name: UniliberFile, Data: feed.Rows},
		{Name: UniliberErrorsFile, Data: feed.Errors},
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Info().Int("validos", feed.Stats.Exported).Int("excluidos", feed.Stats.Skipped).Msg("feed uniliber generado")
	return &File{
		Name:        fmt.Sprintf("uniliber_%s.zip", uc.now().Format("2006-01-02")),
		ContentType: "application/zip",
		Data:        data,
	}, &feed.Stats, nil
}

// BuildAbeBooksFeed genera el inventario TSV (CRLF, sin cabecera) para la
// carga por FTPS. Solo entran libros con stock y precio >= minPrice.
func BuildAbeBooksFeed(books []*entity.Book, minPrice float64) ([]byte, dto.ExportStats) {
	t := &table{sep: "\t", eol: "\r\n"}
	stats := dto.ExportStats{Total: len(books)}
	floor := decimal.NewFromFloat(minPrice)
	for _, b := range books {
		if b.Stock <= 0 || b.Price.LessThan(floor) {
			stats.Skipped++
			continue
		}
		title := b.Title
		if strings.TrimSpace(title) == "" {
			title = entity.DefaultBookTitle
		}
		author := b.Author
		if strings.TrimSpace(author) == "" {
			author = entity.DefaultBookAuthor
		}
		t.raw(
			quote(b.SKU()),
			quote(title),
			quote(textnorm.CollapseSpaces(b.Description)),
			quote(coverOrNo(b.CoverURL)),
			quote(b.Publisher),
			quote(optInt(b.Year)),
			quote(author),
			quote(""),
			quote(entity.DefaultCountry),
			money(b.Price),
			quote(optInt(b.Pages)),
			quote(itoa(int64(b.Stock))),
			quote(b.ISBN),
		)
		stats.Exported++
	}
	return t.bytes(), stats
}

func coverOrNo(url string) string {
	url = strings.TrimSpace(url)
	if url == "" || strings.Contains(url, "default-book-cover") || !strings.HasPrefix(url, "http") {
		return "NO"
	}
	return url
}

// AbeBooks genera abebooks_inventory.txt con el precio mínimo configurado.
func (uc *UseCase) AbeBooks(ctx context.Context) (*File, *dto.ExportStats, error) {
	integ, err := uc.settings.Integrations(ctx)
	if err != nil {
		return nil, nil, err
	}
	minPrice := integ.AbeBooks.FTPS.EffectiveMinPrice(uc.abeMinPrice)
	books, err := uc.books.ListForFeed(ctx, minPrice)
	if err != nil {
		return nil, nil, fmt.Errorf("export abebooks: %w", err)
	}
	if len(books) == 0 {
		return nil, nil, fmt.Errorf("%w: no hay libros que cumplan el precio mínimo", domain.ErrNotFound)
	}
	data, stats := BuildAbeBooksFeed(books, minPrice)
	uc.log.Info().Int("libros", stats.Exported).Float64("precio_minimo", minPrice).Msg("feed abebooks generado")
	return &File{Name: AbeBooksFile, ContentType: "text/plain; charset=utf-8", Data: data}, &stats, nil
}

// BuildIberLibroFeed CSV de inventario para IberLibro con la condición traducida.
func BuildIberLibroFeed(books []*entity.Book) []byte {
	t := newCSV("ISBN", "Título", "Autor", "Editorial", "Año", "Precio", "Stock", "Categoría",
		"Condición", "Fecha Creación")
	for _, b := range books {
		t.row(b.ISBN, b.Title, b.Author, b.Publisher, optInt(b.Year), money(b.Price), itoa(int64(b.Stock)),
			b.CategoryName, catalog.MarketplaceCondition(b.Condition), timestamp(b.CreatedAt))
	}
	return t.bytes()
}

// IberLibro genera el CSV de IberLibro con todo el catálogo.
func (uc *UseCase) IberLibro(ctx context.Context) (*File, error) {
	books, err := uc.books.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export iberlibro: %w", err)
	}
	return &File{
		Name:        fmt.Sprintf("iberlibro_backup_%s.csv", uc.now().Format("2006-01-02")),
		ContentType: "text/csv; charset=utf-8",
		Data:        BuildIberLibroFeed(books),
	}, nil
}

// PublishAbeBooksFeed genera el feed de AbeBooks y lo sube al almacenamiento.
// Lo invoca el planificador cuando la carga automática está activa.
func (uc *UseCase) PublishAbeBooksFeed(ctx context.Context) (*dto.ExportUploadResponse, error) {
	integ, err := uc.settings.Integrations(ctx)
	if err != nil {
		return nil, err
	}
	if !integ.AbeBooks.Enabled || !integ.AbeBooks.FTPS.Enabled {
		return nil, fmt.Errorf("%w: feed de AbeBooks desactivado", domain.ErrIntegrationDisabled)
	}
	f, stats, err := uc.AbeBooks(ctx)
	if err != nil {
		return nil, err
	}
	return uc.Upload(ctx, f, stats)
}
