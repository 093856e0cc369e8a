package auth

import (
	"ashtray_server/lib"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
)

const csrfTokenTTL = 24 * time.Hour

// HandleCSRF issues a double-submit token as a readable cookie and in the body.
func (arm *AuthRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := lib.GenerateCSRFToken()
	if err != nil {
		arm.logger.Error("Failed to generate CSRF token", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Unable to generate CSRF token"),
			gecho.Send(),
		)
		return
	}

	lib.SetCSRFCookie(token, time.Now().Add(csrfTokenTTL), arm.cfg.Cookies, w)

	gecho.Success(w,
		gecho.WithData(map[string]string{
			"csrf_token": token,
		}),
		gecho.Send(),
	)
}
