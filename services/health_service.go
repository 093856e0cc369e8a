package services

import (
	"ashtray_server/database"
	"context"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart = time.Now()

type ServerHealthStatus struct {
	Uptime       float64   `json:"uptime"` // seconds
	CurrentTime  time.Time `json:"current_time"`
	ServiceAlive bool      `json:"service_alive"`
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type DependencyHealthStatus struct {
	Connected      bool      `json:"connected"`
	LastChecked    time.Time `json:"last_checked"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

type HealthService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewHealthService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *HealthService {
	return &HealthService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      totalMB - usedMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) ServerStatus() ServerHealthStatus {
	return ServerHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
	}
}

func (hs *HealthService) DatabaseStatus(ctx context.Context) (DependencyHealthStatus, error) {
	return hs.check(ctx, "database", hs.db.Health)
}

// CacheStatus reports Redis health; a disabled cache always reports connected.
func (hs *HealthService) CacheStatus(ctx context.Context) (DependencyHealthStatus, error) {
	return hs.check(ctx, "cache", hs.cacheService.Ping)
}

func (hs *HealthService) check(ctx context.Context, name string, ping func(context.Context) error) (DependencyHealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := ping(ctx)

	status := DependencyHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		hs.logger.Error("Health check failed", gecho.Field("dependency", name), gecho.Field("error", err))
	}
	return status, err
}
