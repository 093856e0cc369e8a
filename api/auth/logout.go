package auth

import (
	"ashtray_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleLogout clears the admin session cookies. Tokens are short lived and not tracked server side.
func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	lib.ClearCookie(lib.AccessCookieName, arm.cfg.Cookies, w)
	lib.ClearCookie(lib.CSRFCookieName, arm.cfg.Cookies, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
