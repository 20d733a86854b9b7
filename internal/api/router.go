package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/digitallog/console/internal/api/docs"
	"github.com/digitallog/console/internal/api/handler"
	"github.com/digitallog/console/internal/api/middleware"
	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/core/ports"
	"github.com/digitallog/console/internal/forms"
)

// Deps are the collaborators the route server needs.
type Deps struct {
	Store     ports.SessionStore
	Presenter *forms.Presenter
	Refresher interface {
		handler.Refresher
		middleware.RefreshPolicy
	}
	Logout handler.LogoutRunner
	Queue  handler.Serializer
	// Checks are pinged by the readiness probe, keyed by name.
	Checks map[string]handler.Pinger

	CORSOrigins []string
	Logger      zerolog.Logger
	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title        DigitalLog session server
// @version      1.0
// @BasePath     /
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "digitallog",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Presenter, d.Refresher, d.Logout, d.Queue)
	settingsHandler := handler.NewSettingsHandler(d.Presenter, d.Queue)
	pageHandler := handler.NewPageHandler(d.Store)
	requireSession := middleware.RequireSession(d.Store, d.Refresher)

	// --- Route actions ---
	e.POST(domain.RouteLogin, authHandler.Login)
	e.POST(domain.RouteSignup, authHandler.Signup)
	e.POST("/logout", authHandler.Logout)
	e.GET(domain.RouteRefreshToken, authHandler.RefreshToken)
	e.POST(domain.RouteSettings, settingsHandler.Update)
	e.GET("/me", pageHandler.Me)

	// --- Public pages ---
	e.GET(domain.RouteLogin, pageHandler.Page)
	e.GET(domain.RouteSignup, pageHandler.Page)

	// --- Protected pages ---
	e.GET(domain.RouteLanding, pageHandler.Page, requireSession)
	e.GET(domain.RouteBlogs, pageHandler.Page, requireSession)
	e.GET(domain.RouteBlogs+"/:slug", pageHandler.Page, requireSession)
	e.GET(domain.RouteSettings, pageHandler.Page, requireSession)

	admin := e.Group(domain.RouteAdmin, requireSession, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/dashboard", pageHandler.Page)
	admin.GET("/blogs", pageHandler.Page)
	admin.GET("/blogs/create", pageHandler.Page)
	admin.GET("/blogs/:slug/edit", pageHandler.Page)
	admin.GET("/comments", pageHandler.Page)
	admin.GET("/users", pageHandler.Page)

	// --- Health probes and metrics (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are store and API up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
