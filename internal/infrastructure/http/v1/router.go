// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"dormdesk/internal/domain/accommodation"
	"dormdesk/internal/domain/account"
	"dormdesk/internal/domain/catalogs/feature"
	"dormdesk/internal/domain/catalogs/paymenttype"
	"dormdesk/internal/domain/catalogs/product"
	"dormdesk/internal/domain/catalogs/season"
	"dormdesk/internal/domain/inventory"
	"dormdesk/internal/domain/listing"
	"dormdesk/internal/domain/paymentplan"
	"dormdesk/internal/domain/registration"
	"dormdesk/internal/infrastructure/backend"
	"dormdesk/internal/infrastructure/http/v1/handlers"
	"dormdesk/internal/infrastructure/http/v1/middleware"
	"dormdesk/pkg/logger"
)

// RoleSuperAdmin may see every firm.
const RoleSuperAdmin = "super_admin"

// RouterConfig holds dependencies for router.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// API is the backend, one module per resource
	API *backend.API

	// Registrations drives the wizard and the student saga
	Registrations *registration.Service

	// Reconciler caches payments per plan line
	Reconciler *paymentplan.Reconciler

	// TokenParser reads the operator from the bearer token
	TokenParser middleware.TokenParser

	// ReadinessChecks are probed by /health/ready
	ReadinessChecks map[string]handlers.Pinger

	Production          bool
	DefaultInstallments int
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!). Recovery runs inside ErrorHandler so
	// a recovered panic is still rendered as JSON.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())
	router.Use(middleware.Secure(cfg.Production))

	healthHandler := handlers.NewHealthHandler(cfg.ReadinessChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group(backend.APIPrefix)
	{
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.TokenParser))

		registerWizardRoutes(protected, cfg)
		registerWorkflowRoutes(protected, cfg)
		registerCatalogRoutes(protected, cfg)
	}

	return router
}

// registerWizardRoutes registers the registration wizard and student creation.
func registerWizardRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()

	handlers.NewDraftHandler(base, cfg.Registrations, cfg.DefaultInstallments).
		RegisterRoutes(rg.Group("/drafts"))

	students := handlers.NewStudentHandler(base, cfg.Registrations)
	rg.POST("/students", students.Create)
}

// registerWorkflowRoutes registers inventory assignment and payment recording.
func registerWorkflowRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()

	inv := handlers.NewInventoryHandler(base, cfg.API.Inventory, cfg.API)
	items := rg.Group("/inventory")
	{
		items.GET("", inv.List)
		items.POST("/:id/assign", inv.Assign)
		items.POST("/:id/unassign", inv.Unassign)
	}
	handlers.NewContainerHandler(base, handlers.ContainerHandlerConfig[*inventory.Item]{
		Resource: cfg.API.Inventory,
		NewStore: func(r handlers.FindResource[*inventory.Item]) *listing.Store[*inventory.Item] {
			return inventory.NewStore(r, cfg.API, nil).Store
		},
		NewItem: func() *inventory.Item { return &inventory.Item{} },
	}).RegisterRoutes(items)

	pay := handlers.NewPaymentHandler(base, cfg.API.PaymentPlans, cfg.Reconciler)
	plans := rg.Group("/payment-plans")
	{
		plans.GET("/:id/payments", pay.List)
		plans.POST("/:id/payments", pay.Create)
	}
}

// registerCatalogRoutes registers the lookup lists the wizard and admin
// screens read from.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()
	api := cfg.API

	// --- SEASONS ---
	{
		h := handlers.NewSeasonHandler(base, api.Seasons)
		seasons := rg.Group("/seasons")
		RegisterListRoute(seasons, h)
		seasons.GET("/code/:code", h.ByCode)
		handlers.NewContainerHandler(base, handlers.ContainerHandlerConfig[*season.Season]{
			Resource: api.Seasons,
			NewStore: func(r handlers.FindResource[*season.Season]) *listing.Store[*season.Season] {
				return season.NewStore(r).Store
			},
			NewItem: func() *season.Season { return &season.Season{} },
		}).RegisterRoutes(seasons)
	}

	// --- FEATURES ---
	{
		features := rg.Group("/features")
		RegisterListRoute(features, handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*feature.Feature]{
			Resource:   api.Features,
			EntityName: "feature",
		}))
		features.POST("/:id/toggle", handlers.NewFeatureHandler(base, api.Features).Toggle)
		handlers.NewContainerHandler(base, handlers.ContainerHandlerConfig[*feature.Feature]{
			Resource: api.Features,
			NewStore: func(r handlers.FindResource[*feature.Feature]) *listing.Store[*feature.Feature] {
				return feature.NewStore(r).Store
			},
			NewItem: func() *feature.Feature { return &feature.Feature{} },
		}).RegisterRoutes(features)
	}

	// --- APARTS & ROOMS ---
	{
		RegisterListRoute(rg.Group("/aparts"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*accommodation.Apart]{
			Resource:   api.Aparts,
			EntityName: "apart",
		}))
		rooms := handlers.NewRoomHandler(base, api.Rooms)
		rg.GET("/aparts/:id/rooms", rooms.ForApart)
		rg.PUT("/rooms/:id/status", rooms.SetStatus)
	}

	// --- PRODUCTS & PRICES ---
	{
		RegisterListRoute(rg.Group("/products"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*product.Product]{
			Resource:   api.Products,
			EntityName: "product",
		}))
		RegisterListRoute(rg.Group("/prices"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*product.Price]{
			Resource:   api.ProductPrices,
			EntityName: "price",
		}))
	}

	// --- PAYMENT TYPES ---
	RegisterListRoute(rg.Group("/payment-types"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*paymenttype.PaymentType]{
		Resource:   api.PaymentTypes,
		EntityName: "payment type",
		Transform: func(c *gin.Context, items []*paymenttype.PaymentType) []*paymenttype.PaymentType {
			if c.Query("active") == "1" {
				return paymenttype.Active(items)
			}
			return items
		},
	}))

	// --- REGISTRATIONS ---
	RegisterListRoute(rg.Group("/registrations"), handlers.NewRegistrationHandler(base, api.Registrations))

	// --- USERS & FIRMS ---
	{
		RegisterListRoute(rg.Group("/users"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*account.User]{
			Resource:   api.Users,
			EntityName: "user",
		}))
		RegisterListRoute(rg.Group("/firms"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*account.Firm]{
			Resource:   api.Firms,
			EntityName: "firm",
		}), RoleSuperAdmin)
	}
}
