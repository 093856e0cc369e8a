package health

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (hrm *HealthRoutesManager) GetServerHealth(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(hrm.healthService.ServerStatus()),
		gecho.Send(),
	)
}

func (hrm *HealthRoutesManager) GetDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	status, err := hrm.healthService.DatabaseStatus(r.Context())
	if err != nil {
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("Database health check failed"),
			gecho.WithData(status),
			gecho.Send(),
		)
		return
	}
	gecho.Success(w,
		gecho.WithData(status),
		gecho.Send(),
	)
}

func (hrm *HealthRoutesManager) GetCacheHealth(w http.ResponseWriter, r *http.Request) {
	status, err := hrm.healthService.CacheStatus(r.Context())
	if err != nil {
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("Cache health check failed"),
			gecho.WithData(status),
			gecho.Send(),
		)
		return
	}
	gecho.Success(w,
		gecho.WithData(status),
		gecho.Send(),
	)
}
