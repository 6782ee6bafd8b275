// Package scheduler tareas periódicas de integración con AbeBooks: publicación
// del feed de inventario y descarga de pedidos nuevos.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/pkg/logger"
)

// Programación por defecto.
const (
	DefaultFeedSchedule = "0 */6 * * *"
	OrderSyncSchedule   = "@hourly"
	jobTimeout          = 4 * time.Minute
)

// FeedPublisher genera y sube el feed de AbeBooks.
type FeedPublisher interface {
	PublishAbeBooksFeed(ctx context.Context) (*dto.ExportUploadResponse, error)
}

// OrderSyncer descarga pedidos de AbeBooks a la caché local.
type OrderSyncer interface {
	SyncOrders(ctx context.Context) (*dto.SyncResultResponse, error)
}

// Scheduler envuelve un cron con las tareas de AbeBooks.
// Las comprobaciones de activación se hacen en cada ejecución, así que los
// cambios de configuración se aplican sin reiniciar.
type Scheduler struct {
	cron     *cron.Cron
	feed     FeedPublisher
	orders   OrderSyncer
	settings ports.SettingsProvider
	log      *logger.Logger
}

// New construye el planificador; feed y orders pueden ser nil.
func New(feed FeedPublisher, orders OrderSyncer, settings ports.SettingsProvider, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		feed:     feed,
		orders:   orders,
		settings: settings,
		log:      log.Component("scheduler"),
	}
}

// Start registra las tareas y arranca el cron. feedSchedule vacío usa el de la
// configuración de integraciones o el valor por defecto.
func (s *Scheduler) Start(ctx context.Context, feedSchedule string) error {
	if s.feed != nil {
		expr := s.resolveFeedSchedule(ctx, feedSchedule)
		if _, err := s.cron.AddFunc(expr, func() { s.RunFeed(ctx) }); err != nil {
			return err
		}
		s.log.Info().Str("schedule", expr).Msg("feed de AbeBooks programado")
	}
	if s.orders != nil {
		if _, err := s.cron.AddFunc(OrderSyncSchedule, func() { s.RunOrderSync(ctx) }); err != nil {
			return err
		}
		s.log.Info().Str("schedule", OrderSyncSchedule).Msg("sincronización de pedidos AbeBooks programada")
	}
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a las tareas en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) resolveFeedSchedule(ctx context.Context, override string) string {
	if override != "" {
		return override
	}
	if s.settings != nil {
		if integ, err := s.settings.Integrations(ctx); err == nil && integ.AbeBooks.FTPS.Schedule != "" {
			if _, err := cron.ParseStandard(integ.AbeBooks.FTPS.Schedule); err == nil {
				return integ.AbeBooks.FTPS.Schedule
			}
			s.log.Warn().Str("schedule", integ.AbeBooks.FTPS.Schedule).Msg("programación inválida, se usa la de por defecto")
		}
	}
	return DefaultFeedSchedule
}

// RunFeed publica el feed si la carga automática está activa.
func (s *Scheduler) RunFeed(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()
	if s.settings != nil {
		integ, err := s.settings.Integrations(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("leer configuración de integraciones")
			return
		}
		if !integ.AbeBooks.FTPS.AutoSync {
			s.log.Debug().Msg("carga automática de AbeBooks desactivada")
			return
		}
	}
	res, err := s.feed.PublishAbeBooksFeed(ctx)
	if err != nil {
		s.logJobError(err, "feed de AbeBooks")
		return
	}
	s.log.Info().Str("key", res.Key).Int("libros", res.Stats.Exported).Msg("feed de AbeBooks publicado")
}

// RunOrderSync descarga pedidos nuevos de AbeBooks.
func (s *Scheduler) RunOrderSync(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()
	res, err := s.orders.SyncOrders(ctx)
	if err != nil {
		s.logJobError(err, "sincronización de pedidos AbeBooks")
		return
	}
	s.log.Info().Int("sincronizados", res.Synced).Int("fallidos", res.Failed).Msg("pedidos AbeBooks sincronizados")
}

func (s *Scheduler) logJobError(err error, job string) {
	if errors.Is(err, domain.ErrIntegrationDisabled) {
		s.log.Debug().Str("tarea", job).Msg("integración desactivada")
		return
	}
	s.log.Error().Err(err).Str("tarea", job).Msg("tarea programada fallida")
}
