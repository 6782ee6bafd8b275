package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/libreria-api/internal/application/analytics"
	"github.com/jhoicas/libreria-api/internal/application/auth"
	"github.com/jhoicas/libreria-api/internal/application/billing"
	"github.com/jhoicas/libreria-api/internal/application/checkout"
	"github.com/jhoicas/libreria-api/internal/application/export"
	"github.com/jhoicas/libreria-api/internal/application/importer"
	apporder "github.com/jhoicas/libreria-api/internal/application/order"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router. AbeBooksUC es opcional.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	BookUC        *usecase.BookUseCase
	CategoryUC    *usecase.CategoryUseCase
	LocationUC    *usecase.LocationUseCase
	ClientUC      *usecase.ClientUseCase
	UserUC        *usecase.UserUseCase
	RoleUC        *usecase.RoleUseCase
	SettingsUC    *usecase.SettingsUseCase
	BannerUC      *usecase.BannerUseCase
	DiscountUC    *usecase.DiscountUseCase
	PublisherUC   *usecase.PublisherUseCase
	ISBNUC        *usecase.ISBNUseCase
	AIUC          *usecase.AIUseCase
	AnalyticsUC   *usecase.AnalyticsUseCase
	AbeBooksUC    *usecase.AbeBooksUseCase
	ModuleService *usecase.ModuleService
	OrderUC       *apporder.UseCase
	CheckoutUC    *checkout.UseCase
	ImportUC      *importer.UseCase
	ExportUC      *export.UseCase
	BillingUC     *billing.UseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authn := AuthMiddleware(deps.JWTSecret)
	optional := OptionalAuth(deps.JWTSecret)
	can := func(perm string) []fiber.Handler {
		return []fiber.Handler{authn, RequirePermission(perm)}
	}
	with := func(mw []fiber.Handler, h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, mw...), h)
	}

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", authn, authHandler.Me)

	// Books: catálogo público, edición con permisos. Rutas fijas antes de /:id.
	bookHandler := NewBookHandler(deps.BookUC)
	pubHandler := NewPublisherHandler(deps.PublisherUC, deps.ISBNUC)
	books := api.Group("/books")
	books.Get("/search", with(can(entity.PermBooksView), bookHandler.Search)...)
	books.Get("/next-code", with(can(entity.PermBooksEdit), bookHandler.NextCode)...)
	books.Get("/isbn-search", with(can(entity.PermBooksEdit), pubHandler.FindISBN)...)
	books.Get("/isbn/:isbn", with(can(entity.PermBooksEdit), pubHandler.LookupISBN)...)
	books.Post("/repair-encoding", with(can(entity.PermBooksEdit), bookHandler.RepairEncoding)...)
	books.Get("/", optional, bookHandler.List)
	books.Get("/:id", optional, bookHandler.GetByID)
	books.Post("/", with(can(entity.PermBooksEdit), bookHandler.Create)...)
	books.Put("/:id", with(can(entity.PermBooksEdit), bookHandler.Update)...)
	books.Post("/:id/stock", with(can(entity.PermBooksEdit), bookHandler.AdjustStock)...)
	books.Delete("/:id", with(can(entity.PermBooksDelete), bookHandler.Delete)...)

	// Categories y locations
	catHandler := NewCategoryHandler(deps.CategoryUC, deps.LocationUC)
	categories := api.Group("/categories")
	categories.Get("/", optional, catHandler.ListCategories)
	categories.Post("/merge", with(can(entity.PermBooksEdit), catHandler.MergeCategories)...)
	categories.Get("/:id", optional, catHandler.GetCategory)
	categories.Post("/", with(can(entity.PermBooksEdit), catHandler.CreateCategory)...)
	categories.Put("/:id", with(can(entity.PermBooksEdit), catHandler.UpdateCategory)...)
	categories.Delete("/:id", with(can(entity.PermBooksDelete), catHandler.DeleteCategory)...)

	locations := api.Group("/locations")
	locations.Get("/", with(can(entity.PermBooksView), catHandler.ListLocations)...)
	locations.Post("/", with(can(entity.PermBooksEdit), catHandler.CreateLocation)...)
	locations.Put("/:id", with(can(entity.PermBooksEdit), catHandler.UpdateLocation)...)
	locations.Delete("/:id", with(can(entity.PermBooksDelete), catHandler.DeleteLocation)...)

	publishers := api.Group("/publishers")
	publishers.Get("/", with(can(entity.PermBooksView), pubHandler.List)...)
	publishers.Get("/search", with(can(entity.PermBooksView), pubHandler.Search)...)
	publishers.Post("/", with(can(entity.PermBooksEdit), pubHandler.Create)...)
	publishers.Put("/:id", with(can(entity.PermBooksEdit), pubHandler.Update)...)
	publishers.Delete("/:id", with(can(entity.PermBooksDelete), pubHandler.Delete)...)

	// AI
	aiHandler := NewAIHandler(deps.AIUC)
	api.Post("/ai/suggest-category", with(can(entity.PermBooksEdit), aiHandler.SuggestCategory)...)

	// Clients
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := api.Group("/clients")
	clients.Get("/", with(can(entity.PermClientsView), clientHandler.List)...)
	clients.Get("/:id", with(can(entity.PermClientsView), clientHandler.GetByID)...)
	clients.Post("/", with(can(entity.PermClientsManage), clientHandler.Create)...)
	clients.Put("/:id", with(can(entity.PermClientsManage), clientHandler.Update)...)
	clients.Delete("/:id", with(can(entity.PermClientsManage), clientHandler.Delete)...)

	// Orders (back-office)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := api.Group("/orders")
	orders.Get("/stats", with(can(entity.PermOrdersView), orderHandler.Stats)...)
	orders.Get("/top-selling", with(can(entity.PermOrdersView), orderHandler.TopSelling)...)
	orders.Get("/pending-count", with(can(entity.PermOrdersView), orderHandler.PendingCount)...)
	orders.Get("/status-options", with(can(entity.PermOrdersView), orderHandler.StatusOptions)...)
	orders.Get("/", with(can(entity.PermOrdersView), orderHandler.List)...)
	orders.Get("/:id", with(can(entity.PermOrdersView), orderHandler.GetByID)...)
	orders.Get("/:id/packing-slip", with(can(entity.PermOrdersView), orderHandler.PackingSlip)...)
	orders.Post("/", with(can(entity.PermOrdersManage), orderHandler.Create)...)
	orders.Patch("/:id/status", with(can(entity.PermOrdersManage), orderHandler.ChangeStatus)...)
	orders.Post("/:id/lines", with(can(entity.PermOrdersManage), orderHandler.AddLine)...)
	orders.Delete("/:id/lines/:lineId", with(can(entity.PermOrdersManage), orderHandler.DeleteLine)...)
	orders.Put("/:id/tracking", with(can(entity.PermOrdersManage), orderHandler.SetTracking)...)

	// Tienda: cualquier usuario autenticado
	shopHandler := NewShopHandler(deps.CheckoutUC)
	shop := api.Group("/shop", authn)
	shop.Get("/cart", shopHandler.GetCart)
	shop.Put("/cart", shopHandler.ReplaceCart)
	shop.Post("/checkout", shopHandler.PlaceOrder)
	shop.Post("/payments/intent", shopHandler.CreatePaymentIntent)
	shop.Get("/payments/:intentId", shopHandler.PaymentStatus)
	shop.Get("/orders", orderHandler.MyOrders)
	shop.Get("/orders/:id", orderHandler.MyOrder)

	// Webhook de la pasarela (firma verificada en el caso de uso)
	api.Post("/payments/webhook", shopHandler.Webhook)

	// Importación y AbeBooks
	mpHandler := NewMarketplaceHandler(deps.ImportUC, deps.AbeBooksUC)
	importGroup := api.Group("/import", can(entity.PermImportOrders)...)
	importGroup.Post("/preview", mpHandler.PreviewImport)
	importGroup.Post("/", mpHandler.Import)

	if deps.AbeBooksUC != nil {
		abe := api.Group("/abebooks", authn, RequireIntegration(usecase.IntegrationAbeBooks, deps.ModuleService))
		abe.Post("/inventory/sync", RequirePermission(entity.PermBooksEdit), mpHandler.PushAll)
		abe.Post("/books/:id/sync", RequirePermission(entity.PermBooksEdit), mpHandler.SyncBook)
		abe.Post("/books/:id/stock", RequirePermission(entity.PermBooksEdit), mpHandler.SyncStock)
		abe.Post("/orders/sync", RequirePermission(entity.PermOrdersManage), mpHandler.SyncOrders)
		abe.Get("/orders", RequirePermission(entity.PermOrdersView), mpHandler.ListOrders)
		abe.Get("/orders/:externalId", RequirePermission(entity.PermOrdersView), mpHandler.GetOrder)
	}

	// Exportaciones
	exportHandler := NewExportHandler(deps.ExportUC)
	exports := api.Group("/export", can(entity.PermExportData)...)
	exports.Get("/entity/:entity", exportHandler.Entity)
	exports.Get("/backup", exportHandler.Backup)
	exports.Get("/iberlibro", exportHandler.IberLibro)
	exports.Get("/uniliber", RequireIntegration(usecase.IntegrationUniliber, deps.ModuleService), exportHandler.Uniliber)
	exports.Get("/abebooks", RequireIntegration(usecase.IntegrationAbeBooks, deps.ModuleService), exportHandler.AbeBooks)
	exports.Post("/abebooks/publish", RequireIntegration(usecase.IntegrationAbeBooksFeed, deps.ModuleService), exportHandler.PublishAbeBooksFeed)

	// Facturas
	invoiceHandler := NewInvoiceHandler(deps.BillingUC)
	invoices := api.Group("/invoices", can(entity.PermInvoicesManage)...)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/send", invoiceHandler.SendEmail)

	// Usuarios y roles
	userHandler := NewUserHandler(deps.UserUC, deps.RoleUC)
	users := api.Group("/users", can(entity.PermUsersManage)...)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/role", userHandler.ChangeRole)
	users.Put("/:id/active", userHandler.SetActive)
	users.Put("/:id/password", userHandler.ResetPassword)
	api.Get("/roles", with(can(entity.PermUsersManage), userHandler.ListRoles)...)

	// Configuración, banners y descuentos
	settingsHandler := NewSettingsHandler(deps.SettingsUC, deps.BannerUC)
	settings := api.Group("/settings", authn)
	settings.Get("/", RequirePermission(entity.PermSettingsView), settingsHandler.GetAll)
	settings.Get("/:category", RequirePermission(entity.PermSettingsView), settingsHandler.Get)
	settings.Put("/:category", RequirePermission(entity.PermSettingsEdit), settingsHandler.Update)
	settings.Post("/:category/reset", RequirePermission(entity.PermSettingsEdit), settingsHandler.Reset)

	banners := api.Group("/banners")
	banners.Get("/active", settingsHandler.ActiveBanner)
	banners.Get("/", with(can(entity.PermMarketingManage), settingsHandler.ListBanners)...)
	banners.Post("/", with(can(entity.PermMarketingManage), settingsHandler.CreateBanner)...)
	banners.Put("/:id", with(can(entity.PermMarketingManage), settingsHandler.UpdateBanner)...)
	banners.Delete("/:id", with(can(entity.PermMarketingManage), settingsHandler.DeleteBanner)...)

	discountHandler := NewDiscountHandler(deps.DiscountUC)
	discounts := api.Group("/discounts")
	discounts.Get("/active", discountHandler.Active)
	discounts.Get("/", with(can(entity.PermMarketingManage), discountHandler.List)...)
	discounts.Post("/", with(can(entity.PermMarketingManage), discountHandler.Create)...)
	discounts.Put("/:id", with(can(entity.PermMarketingManage), discountHandler.Update)...)
	discounts.Patch("/:id/active", with(can(entity.PermMarketingManage), discountHandler.Toggle)...)
	discounts.Delete("/:id", with(can(entity.PermMarketingManage), discountHandler.Delete)...)

	// Dashboard y analítica
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	api.Get("/dashboard/summary", with(can(entity.PermOrdersView), dashboardHandler.GetSummary)...)
	api.Get("/analytics/channels", with(can(entity.PermOrdersView), analyticsHandler.GetChannels)...)
}
