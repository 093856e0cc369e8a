package admin

import (
	"ashtray_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ar.statsService.Dashboard(r.Context())
	if err != nil {
		handling.HandleError(err, "Unable to load dashboard statistics", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(stats), gecho.Send())
}
