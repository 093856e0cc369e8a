package middleware

import (
	"ashtray_server/lib"
	"ashtray_server/structs"
	"context"
	"net/http"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const (
	ClaimsContextKey   contextKey = "claims"
	DeviceIDContextKey contextKey = "device_id"
)

// AdminAuthMiddleware admits requests carrying a valid access token with the admin role.
// A missing or invalid token is 401, a valid token for any other role is 403.
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.cfg.Auth.AccessTokenSecret)
		if err != nil {
			mw.logger.Debug("Rejected admin request without valid token", gecho.Field("error", err), gecho.Field("path", r.URL.Path))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		if claims.Role != lib.AdminRole {
			mw.logger.Warn("Non-admin token used on admin route", gecho.Field("sub", claims.Sub), gecho.Field("role", claims.Role))
			gecho.Forbidden(w, gecho.WithMessage("Admin access required"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaimsFromContext returns the claims stored by AdminAuthMiddleware.
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}
