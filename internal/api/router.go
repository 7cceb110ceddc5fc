package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/tuneup/studio/docs"
	"github.com/tuneup/studio/internal/api/handler"
	"github.com/tuneup/studio/internal/api/middleware"
	"github.com/tuneup/studio/internal/core/service"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Identities *service.IdentityService
	Documents  *service.DocumentService
	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handler.Pinger
	// Registry receives the HTTP metrics; a fresh registry is used when nil.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "studio",
		Registerer: registry,
	}))

	authMiddleware := middleware.Auth(deps.Identities)

	// --- Identity routes ---
	identityHandler := handler.NewIdentityHandler(deps.Identities)
	identities := e.Group("/v1/identities")
	identities.POST("", identityHandler.Create)
	identities.POST("/provision", identityHandler.Provision, authMiddleware)
	identities.PUT("/:uid/display-name", identityHandler.SetDisplayName, authMiddleware)
	identities.DELETE("/:uid", identityHandler.Delete, authMiddleware)

	// --- Session routes ---
	sessionHandler := handler.NewSessionHandler(deps.Identities)
	sessions := e.Group("/v1/sessions")
	sessions.POST("", sessionHandler.Create)
	sessions.POST("/credential", sessionHandler.CreateWithCredential)
	sessions.DELETE("", sessionHandler.Delete, authMiddleware)

	// --- Document routes ---
	documentHandler := handler.NewDocumentHandler(deps.Documents)
	documents := e.Group("/v1/documents", authMiddleware, middleware.Ownership(deps.Documents, deps.Identities))
	documents.GET("/:collection", documentHandler.Query)
	documents.POST("/:collection", documentHandler.Create)
	documents.GET("/:collection/:id", documentHandler.Get)
	documents.PUT("/:collection/:id", documentHandler.Set)
	documents.PATCH("/:collection/:id", documentHandler.Update)
	documents.DELETE("/:collection/:id", documentHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

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
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
