package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/libreria-api/docs"
	appanalytics "github.com/jhoicas/libreria-api/internal/application/analytics"
	"github.com/jhoicas/libreria-api/internal/application/auth"
	"github.com/jhoicas/libreria-api/internal/application/billing"
	"github.com/jhoicas/libreria-api/internal/application/checkout"
	"github.com/jhoicas/libreria-api/internal/application/export"
	"github.com/jhoicas/libreria-api/internal/application/importer"
	"github.com/jhoicas/libreria-api/internal/application/notification"
	apporder "github.com/jhoicas/libreria-api/internal/application/order"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
	infraabebooks "github.com/jhoicas/libreria-api/internal/infrastructure/abebooks"
	infraai "github.com/jhoicas/libreria-api/internal/infrastructure/ai"
	"github.com/jhoicas/libreria-api/internal/infrastructure/isbn"
	"github.com/jhoicas/libreria-api/internal/infrastructure/cache"
	"github.com/jhoicas/libreria-api/internal/infrastructure/mail"
	"github.com/jhoicas/libreria-api/internal/infrastructure/payment"
	infrapdf "github.com/jhoicas/libreria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/libreria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/libreria-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/libreria-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/libreria-api/internal/interfaces/http"
	"github.com/jhoicas/libreria-api/pkg/config"
	"github.com/jhoicas/libreria-api/pkg/logger"
)

// @title           Librería API
// @version         1.0
// @description     Catálogo, pedidos, tienda online, facturación e integraciones con marketplaces.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres").Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Component("migrate").Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("preparar migraciones")
	}
	if err := migrator.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	_ = migrator.Close()

	// Repositorios
	bookRepo := postgres.NewBookRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	bannerRepo := postgres.NewBannerRepository(pool)
	discountRepo := postgres.NewDiscountRepository(pool)
	publisherRepo := postgres.NewPublisherRepository(pool)
	marketplaceRepo := postgres.NewMarketplaceOrderRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	settingsUC := usecase.NewSettingsUseCase(settingsRepo)
	moduleSvc := usecase.NewModuleService(settingsUC)

	// Infraestructura opcional: cada pieza se activa solo si está configurada.
	var (
		jobQueue    ports.JobQueue
		idempotency ports.IdempotencyStore
		mailer      ports.Mailer
		objects     ports.ObjectStorage
		gateway     ports.PaymentGateway
		marketplace ports.MarketplaceClient
	)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible: correos síncronos y webhooks sin deduplicar")
		} else {
			defer rdb.Close()
			jobQueue = cache.NewQueue(rdb)
			idempotency = cache.NewIdempotencyStore(rdb, "")
		}
	}
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
	}
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("almacenamiento de ficheros desactivado")
		} else {
			objects = s3
		}
	}
	if cfg.Stripe.Enabled() {
		stripeGW, err := payment.NewStripeGateway(cfg.Stripe)
		if err != nil {
			log.Warn().Err(err).Msg("pagos con tarjeta desactivados")
		} else {
			gateway = stripeGW
		}
	}
	if cfg.AbeBooks.Username != "" {
		abeClient, err := infraabebooks.NewClient(cfg.AbeBooks)
		if err != nil {
			log.Warn().Err(err).Msg("cliente AbeBooks desactivado")
		} else {
			marketplace = abeClient
		}
	}

	dispatcher := notification.NewDispatcher(notification.Config{
		Queue:     jobQueue,
		Mailer:    mailer,
		Settings:  settingsUC,
		PublicURL: cfg.App.PublicURL,
		Logger:    log,
	})
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	// Casos de uso
	roleUC := usecase.NewRoleUseCase(roleRepo)
	userUC := usecase.NewUserUseCase(userRepo, roleUC)
	authUC := auth.NewAuthUseCase(userRepo, roleUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	discountUC := usecase.NewDiscountUseCase(discountRepo, categoryRepo)
	bookUC := usecase.NewBookUseCase(bookRepo, settingsUC).WithDiscounts(discountUC)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	publisherUC := usecase.NewPublisherUseCase(publisherRepo)
	googleBooks := isbn.NewGoogleBooks(cfg.ISBN.GoogleAPIKey, cfg.ISBN.Timeout)
	isbnUC := usecase.NewISBNUseCase(usecase.ISBNSources{
		Google:      googleBooks,
		OpenLibrary: isbn.NewOpenLibrary(cfg.ISBN.Timeout),
		BNE:         isbn.NewBNE(cfg.ISBN.Timeout),
		Search:      googleBooks,
		Logger:      log,
	})
	locationUC := usecase.NewLocationUseCase(locationRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	bannerUC := usecase.NewBannerUseCase(bannerRepo)
	analyticsUC := usecase.NewAnalyticsUseCase(analyticsRepo)
	aiUC := usecase.NewAIUseCase(infraai.NewLLMService(
		cfg.AI.Provider, cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel,
	))

	orderUC := apporder.NewUseCase(apporder.Deps{
		Tx:       txRunner,
		Orders:   orderRepo,
		Books:    bookRepo,
		Clients:  clientRepo,
		Settings: settingsUC,
		PDF:      pdfGenerator,
		Notifier: dispatcher,
		Logger:   log,
	})
	checkoutUC := checkout.NewUseCase(checkout.Deps{
		Tx:          txRunner,
		Cart:        cartRepo,
		Books:       bookRepo,
		Orders:      orderRepo,
		OrderUC:     orderUC,
		Settings:    settingsUC,
		Discounts:   discountUC,
		Gateway:     gateway,
		Idempotency: idempotency,
		Notifier:    dispatcher,
		Logger:      log,
	})
	importUC := importer.NewUseCase(bookRepo, clientUC, orderUC, log)
	exportUC := export.NewUseCase(export.Deps{
		Books:      bookRepo,
		Categories: categoryRepo,
		Locations:  locationRepo,
		Clients:    clientRepo,
		Orders:     orderRepo,
		Invoices:   invoiceRepo,
		Settings:   settingsUC,
		Storage:    objects,
		Logger:     log,

		AbeBooksMinPrice: cfg.AbeBooks.MinPrice,
	})
	billingUC := billing.NewUseCase(billing.Deps{
		Invoices: invoiceRepo,
		Orders:   orderRepo,
		Clients:  clientRepo,
		Settings: settingsUC,
		PDF:      pdfGenerator,
		Sender:   dispatcher,
		Logger:   log,
	})
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, orderUC)

	var abebooksUC *usecase.AbeBooksUseCase
	if marketplace != nil {
		abebooksUC = usecase.NewAbeBooksUseCase(marketplace, bookRepo, marketplaceRepo, settingsUC).WithMinPrice(cfg.AbeBooks.MinPrice)
	}

	// Workers de correo y tareas programadas
	dispatcher.Run(ctx, cfg.Workers.Count)

	var (
		feedPublisher scheduler.FeedPublisher
		orderSyncer   scheduler.OrderSyncer
	)
	if objects != nil {
		feedPublisher = exportUC
	}
	if abebooksUC != nil {
		orderSyncer = abebooksUC
	}
	sched := scheduler.New(feedPublisher, orderSyncer, settingsUC, log)
	if err := sched.Start(ctx, cfg.AbeBooks.Schedule); err != nil {
		log.Fatal().Err(err).Msg("arrancar tareas programadas")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(compress.New())
	app.Use(requestLogger(log.Component("http")))
	app.Use("/api/auth/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Librería API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_down"})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		BookUC:        bookUC,
		CategoryUC:    categoryUC,
		LocationUC:    locationUC,
		ClientUC:      clientUC,
		UserUC:        userUC,
		RoleUC:        roleUC,
		SettingsUC:    settingsUC,
		BannerUC:      bannerUC,
		DiscountUC:    discountUC,
		PublisherUC:   publisherUC,
		ISBNUC:        isbnUC,
		AIUC:          aiUC,
		AnalyticsUC:   analyticsUC,
		AbeBooksUC:    abebooksUC,
		ModuleService: moduleSvc,
		OrderUC:       orderUC,
		CheckoutUC:    checkoutUC,
		ImportUC:      importUC,
		ExportUC:      exportUC,
		BillingUC:     billingUC,
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()
	sched.Stop()

	log.Info().Msg("aplicación detenida")
}

// requestLogger registra cada petición con zerolog.
func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", httpRouter.GetUserID(c)).
			Msg("request")
		return err
	}
}
