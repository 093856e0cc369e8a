package auth

import (
	"ashtray_server/api/middleware"
	"ashtray_server/handling"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AdminLoginRequest](r)
	if err != nil {
		handling.HandleError(err, "Please check your login information and try again", arm.logger, w)
		return
	}

	session, err := arm.authService.Login(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidCredentials) {
			arm.logger.Warn("Admin login failed", gecho.Field("email", body.Email))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
			return
		}
		handling.HandleError(err, "Unable to complete login. Please try again", arm.logger, w)
		return
	}

	lib.SetCookie(lib.AccessCookieName, session.AccessToken, session.ExpiresAt, arm.cfg.Cookies, w)

	gecho.Success(w,
		gecho.WithMessage("Login successful"),
		gecho.WithData(structs.AdminSessionResponse{
			ID:        session.Admin.ID,
			Email:     session.Admin.Email,
			LastLogin: session.Admin.LastLogin,
			ExpiresAt: session.ExpiresAt,
		}),
		gecho.Send(),
	)
}

// HandleMe returns the identity carried by the access token.
func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"id":         claims.Sub,
			"email":      claims.Email,
			"role":       claims.Role,
			"expires_at": claims.Exp,
		}),
		gecho.Send(),
	)
}
