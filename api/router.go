package api

import (
	"ashtray_server/api/middleware"
	"ashtray_server/services"
	"ashtray_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

const maxRequestBytes = 1 << 20

func App(cfg *structs.Config, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	// create loggers
	logLevel := gecho.ParseLogLevel(cfg.Server.LogLevel)
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(logLevel)))
	standardLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(true), gecho.WithLogLevel(logLevel)))

	mw := middleware.NewMiddleware(cfg, mwLogger, sm.CacheService)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)
	r.Use(chiware.Timeout(cfg.Server.WriteTimeout))

	// Limits & security
	r.Use(mw.BodyLimit(maxRequestBytes))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(middleware.MetricsMiddleware)
	r.Use(gecho.Handlers.CreateLoggingMiddleware(mwLogger))

	// CORS (must be before auth / csrf)
	r.Use(mw.SetupCORS().Handler)

	r.Use(mw.RateLimitMiddleware())
	r.Use(mw.DeviceMiddleware)

	NewRouterManager(standardLogger, cfg, sm, mw).RegisterRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the "+cfg.Server.AppName+" API"),
			gecho.Send(),
		)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
