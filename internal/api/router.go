package api

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/chemtrack/chemical-tracker/docs"
	"github.com/chemtrack/chemical-tracker/internal/api/handler"
	"github.com/chemtrack/chemical-tracker/internal/api/metrics"
	"github.com/chemtrack/chemical-tracker/internal/api/middleware"
	"github.com/chemtrack/chemical-tracker/internal/core/domain"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

// Dependencies carries everything the router wires together. Provider and
// Redis may be nil (no provider installed / cache disabled); the routes
// stay up and the affected operations fail per the error model.
type Dependencies struct {
	SessionService  ports.SessionService
	SessionRegistry ports.SessionRegistry
	BatchService    ports.BatchService
	Locator         ports.GeoLocator
	Provider        ports.Provider
	Redis           *redis.Client
	JWTSecret       string
	Log             zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(prometheusMiddleware())

	metrics.ObserveGate(d.BatchService.InFlight)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.SessionService)
	batchHandler := handler.NewBatchHandler(d.BatchService)
	dashboardHandler := handler.NewDashboardHandler()
	locationHandler := handler.NewLocationHandler(d.Locator)
	authRequired := middleware.Auth(d.JWTSecret, d.SessionRegistry)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authRequired)

	// --- Dashboard + operation panels ---
	v1 := e.Group("/v1", authRequired)
	v1.GET("/dashboard", dashboardHandler.Panels)
	v1.POST("/batches", batchHandler.Create, middleware.RequirePanel(domain.PanelCreate))
	v1.GET("/batches/details", dashboardHandler.ViewDetails, middleware.RequirePanel(domain.PanelViewDetails))
	v1.GET("/batches/:id", batchHandler.Get, middleware.RequirePanel(domain.PanelFetch))
	v1.POST("/batches/:id/transfer", batchHandler.Transfer, middleware.RequirePanel(domain.PanelTransfer))
	v1.POST("/batches/:id/complete", batchHandler.Complete, middleware.RequirePanel(domain.PanelComplete))
	v1.GET("/location", locationHandler.Current, middleware.RequirePanel(domain.PanelLocationLookup))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Provider, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability + docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

var (
	promOnce       sync.Once
	promMiddleware echo.MiddlewareFunc
)

// prometheusMiddleware builds the echoprometheus middleware exactly once
// per process: its collectors live in the default registry, and a reload
// rebuilds the router without restarting the process.
func prometheusMiddleware() echo.MiddlewareFunc {
	promOnce.Do(func() {
		promMiddleware = echoprometheus.NewMiddleware("chemtrack")
	})
	return promMiddleware
}
