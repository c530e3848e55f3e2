package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/jfsc-dain/audit-system/internal/api/handler"
	"github.com/jfsc-dain/audit-system/internal/api/middleware"
	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/core/service"

	_ "github.com/jfsc-dain/audit-system/docs"
)

// Dependencies are the collaborators NewRouter wires into routes.
type Dependencies struct {
	Registry *service.InstanceRegistry
	Policy   *service.RolePolicy
	// Trail may be nil when the audit trail is disabled.
	Trail  ports.SessionEventRepository
	Checks map[string]handler.Check

	Cookie   middleware.ClientOptions
	BootWait time.Duration
	Logger   zerolog.Logger
	// Metrics receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Policy, deps.Logger)

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "dain",
		Subsystem:  "gateway",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no client instance) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dependencies ---
	guard := service.NewRouteGuard(deps.Policy)
	sessionHandler := handler.NewSessionHandler(deps.Policy)
	pageHandler := handler.NewPageHandler(deps.Policy)
	proxyHandler := handler.NewProxyHandler(deps.Policy)
	trailHandler := handler.NewAuditTrailHandler(deps.Trail)

	client := middleware.ClientInstance(deps.Registry, deps.Cookie)
	guarded := middleware.Guard(guard, deps.Policy, deps.BootWait)
	settled := middleware.SessionSettled(deps.BootWait)

	// --- Session routes ---
	e.POST(string(domain.RouteLogin), sessionHandler.Login, client)
	e.POST("/logout", sessionHandler.Logout, client)
	e.GET(string(domain.RouteSession), sessionHandler.Current, client)

	// --- Backend pass-through ---
	e.Any("/api/*", proxyHandler.Forward, client, settled)

	// --- Director tooling ---
	e.GET("/audit-trail", trailHandler.List, client, settled, middleware.RequireRoles(deps.Policy, domain.RoleDirector))

	// --- Guarded pages ---
	e.GET(string(domain.RouteRoot), pageHandler.Render, client, guarded)
	e.GET(string(domain.RouteLogin), pageHandler.Render, client, guarded)
	for _, route := range deps.Policy.ProtectedRoutes() {
		e.GET(string(route), pageHandler.Render, client, guarded)
	}
	e.GET("/*", pageHandler.Render, client, guarded)

	return e
}

// requestLogger logs one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
