// exporter genera las copias de seguridad y los feeds de inventario desde la
// línea de comandos, sin levantar la API. Pensado para cron del sistema.
//
// Uso:
//
//	go run ./cmd/exporter -kind backup -out ./backups
//	go run ./cmd/exporter -kind entity -entity libros
//	go run ./cmd/exporter -kind abebooks -upload
//
// Tipos: backup, entity, uniliber, abebooks, iberlibro.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/export"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
	"github.com/jhoicas/libreria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/libreria-api/internal/infrastructure/storage"
	"github.com/jhoicas/libreria-api/pkg/config"
	"github.com/jhoicas/libreria-api/pkg/logger"
)

func main() {
	kind := flag.String("kind", "backup", "backup | entity | uniliber | abebooks | iberlibro")
	entityName := flag.String("entity", export.EntityBooks, "entidad a exportar con -kind entity")
	outDir := flag.String("out", ".", "directorio de salida")
	upload := flag.Bool("upload", false, "subir al almacenamiento en vez de escribir en disco")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("exporter")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var objects ports.ObjectStorage
	if *upload {
		if !cfg.Storage.Enabled() {
			log.Fatal().Msg("-upload requiere STORAGE_BUCKET y credenciales")
		}
		s3, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar almacenamiento")
		}
		objects = s3
	}

	uc := export.NewUseCase(export.Deps{
		Books:      postgres.NewBookRepository(pool),
		Categories: postgres.NewCategoryRepository(pool),
		Locations:  postgres.NewLocationRepository(pool),
		Clients:    postgres.NewClientRepository(pool),
		Orders:     postgres.NewOrderRepository(pool),
		Invoices:   postgres.NewInvoiceRepository(pool),
		Settings:   usecase.NewSettingsUseCase(postgres.NewSettingsRepository(pool)),
		Storage:    objects,
		Logger:     log,

		AbeBooksMinPrice: cfg.AbeBooks.MinPrice,
	})

	f, stats, err := generate(ctx, uc, *kind, *entityName)
	if err != nil {
		log.Fatal().Err(err).Str("kind", *kind).Msg("generar exportación")
	}

	if *upload {
		res, err := uc.Upload(ctx, f, stats)
		if err != nil {
			log.Fatal().Err(err).Msg("subir exportación")
		}
		log.Info().Str("key", res.Key).Str("url", res.DownloadURL).Msg("exportación subida")
		return
	}

	path := filepath.Join(*outDir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("escribir fichero")
	}
	ev := log.Info().Str("path", path).Int("bytes", len(f.Data))
	if stats != nil {
		ev = ev.Int("exported", stats.Exported).Int("skipped", stats.Skipped)
	}
	ev.Msg("exportación generada")
}

func generate(ctx context.Context, uc *export.UseCase, kind, entityName string) (*export.File, *dto.ExportStats, error) {
	switch kind {
	case "backup":
		f, err := uc.Backup(ctx)
		return f, nil, err
	case "entity":
		f, err := uc.Entity(ctx, entityName)
		return f, nil, err
	case "uniliber":
		return uc.Uniliber(ctx)
	case "abebooks":
		return uc.AbeBooks(ctx)
	case "iberlibro":
		f, err := uc.IberLibro(ctx)
		return f, nil, err
	default:
		return nil, nil, fmt.Errorf("tipo de exportación desconocido: %q", kind)
	}
}
