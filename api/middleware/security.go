package middleware

import (
	"ashtray_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (mw *Middleware) SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			w.Header().Set("Permissions-Policy", "geolocation=(), camera=()")

			next.ServeHTTP(w, r)
		})
	}
}

func (mw *Middleware) BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFMiddleware enforces the double-submit token on state-changing requests.
func (mw *Middleware) CSRFMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := lib.GetCookieValue(lib.CSRFCookieName, r)
			if err != nil {
				gecho.Forbidden(w, gecho.WithMessage("CSRF token missing"), gecho.Send())
				return
			}

			if !lib.CSRFTokensMatch(cookie, r.Header.Get("X-CSRF-Token")) {
				mw.logger.Warn("CSRF token mismatch", gecho.Field("path", r.URL.Path))
				gecho.Forbidden(w, gecho.WithMessage("Invalid CSRF token"), gecho.Send())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
