// Package export genera las copias de seguridad en CSV y los feeds de
// inventario para marketplaces (Uniliber, AbeBooks, IberLibro).
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/pkg/logger"
)

// Validez de las URLs de descarga firmadas.
const DownloadURLTTL = 15 * time.Minute

// File fichero generado listo para descargar o subir.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UseCase exportaciones y copias de seguridad.
type UseCase struct {
	books      repository.BookRepository
	categories repository.CategoryRepository
	locations  repository.LocationRepository
	clients    repository.ClientRepository
	orders     repository.OrderRepository
	invoices   repository.InvoiceRepository
	settings   ports.SettingsProvider
	storage    ports.ObjectStorage
	log        *logger.Logger
	now        func() time.Time

	// abeMinPrice precio mínimo de configuración si los ajustes no guardan uno.
	abeMinPrice float64
}

// Deps dependencias del caso de uso; Storage y Logger son opcionales.
type Deps struct {
	Books      repository.BookRepository
	Categories repository.CategoryRepository
	Locations  repository.LocationRepository
	Clients    repository.ClientRepository
	Orders     repository.OrderRepository
	Invoices   repository.InvoiceRepository
	Settings   ports.SettingsProvider
	Storage    ports.ObjectStorage
	Logger     *logger.Logger

	// AbeBooksMinPrice valor de ABEBOOKS_MIN_PRICE.
	AbeBooksMinPrice float64
}

// NewUseCase construye el caso de uso de exportación.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		books:      d.Books,
		categories: d.Categories,
		locations:  d.Locations,
		clients:    d.Clients,
		orders:     d.Orders,
		invoices:   d.Invoices,
		settings:   d.Settings,
		storage:    d.Storage,
		log:        d.Logger,
		now:        time.Now,

		abeMinPrice: d.AbeBooksMinPrice,
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// Entidades exportables individualmente.
const (
	EntityBooks      = "libros"
	EntityCategories = "categorias"
	EntityClients    = "clientes"
	EntityOrders     = "pedidos"
	EntityInvoices   = "facturas"
	EntityLocations  = "ubicaciones"
)

// Entities orden de los ficheros dentro de la copia completa.
var Entities = []string{EntityBooks, EntityCategories, EntityClients, EntityOrders, EntityInvoices, EntityLocations}

// Entity genera el CSV de copia de una entidad.
func (uc *UseCase) Entity(ctx context.Context, name string) (*File, error) {
	var (
		data []byte
		err  error
	)
	switch name {
	case EntityBooks:
		data, err = uc.booksCSV(ctx)
	case EntityCategories:
		data, err = uc.categoriesCSV(ctx)
	case EntityClients:
		data, err = uc.clientsCSV(ctx)
	case EntityOrders:
		data, err = uc.ordersCSV(ctx)
	case EntityInvoices:
		data, err = uc.invoicesCSV(ctx)
	case EntityLocations:
		data, err = uc.locationsCSV(ctx)
	default:
		return nil, fmt.Errorf("%w: entidad de exportación desconocida %q", domain.ErrInvalidInput, name)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", name, err)
	}
	return &File{
		Name:        fmt.Sprintf("%s_backup_%s.csv", name, uc.now().Format("2006-01-02")),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// Backup empaqueta el CSV de todas las entidades en un único ZIP.
func (uc *UseCase) Backup(ctx context.Context) (*File, error) {
	entries := make([]zipEntry, 0, len(Entities))
	for _, name := range Entities {
		f, err := uc.Entity(ctx, name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, zipEntry{Name: name + ".csv", Data: f.Data})
	}
	data, err := buildZip(entries)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("ficheros", len(entries)).Int("bytes", len(data)).Msg("copia de seguridad generada")
	return &File{
		Name:        fmt.Sprintf("backup_%s.zip", uc.now().Format("2006-01-02")),
		ContentType: "application/zip",
		Data:        data,
	}, nil
}

// Upload sube el fichero a exports/<yyyy>/<mm>/<nombre> y devuelve una URL firmada.
func (uc *UseCase) Upload(ctx context.Context, f *File, stats *dto.ExportStats) (*dto.ExportUploadResponse, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("%w: almacenamiento de ficheros no configurado", domain.ErrIntegrationDisabled)
	}
	key := StorageKey(uc.now(), f.Name)
	if err := uc.storage.Put(ctx, key, f.ContentType, f.Data); err != nil {
		return nil, fmt.Errorf("subir %s: %w", key, err)
	}
	url, err := uc.storage.PresignGet(ctx, key, DownloadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("firmar %s: %w", key, err)
	}
	uc.log.Info().Str("key", key).Int("bytes", len(f.Data)).Msg("exportación subida")
	out := &dto.ExportUploadResponse{Key: key, DownloadURL: url, Size: len(f.Data)}
	if stats != nil {
		out.Stats = *stats
	}
	return out, nil
}

// StorageKey clave de almacenamiento particionada por año y mes.
func StorageKey(now time.Time, name string) string {
	return fmt.Sprintf("exports/%04d/%02d/%s", now.Year(), int(now.Month()), name)
}
