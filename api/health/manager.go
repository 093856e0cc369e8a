package health

import (
	"ashtray_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthRoutesManager struct {
	logger        *gecho.Logger
	healthService *services.HealthService
}

func NewHealthRoutesManager(logger *gecho.Logger, healthService *services.HealthService) *HealthRoutesManager {
	return &HealthRoutesManager{
		logger:        logger,
		healthService: healthService,
	}
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/health", hrm.GetServerHealth)
	r.Get("/health/database", hrm.GetDatabaseHealth)
	r.Get("/health/cache", hrm.GetCacheHealth)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	services.RegisterMetrics()
}
