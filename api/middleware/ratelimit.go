package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

const loginPath = "/admin/auth/login"

// getRateLimitForEndpoint determines which rate limit to apply based on config
func (mw *Middleware) getRateLimitForEndpoint(path string) (int, time.Duration) {
	if strings.HasPrefix(path, loginPath) {
		return mw.cfg.RateLimit.AuthLimit, mw.cfg.RateLimit.AuthWindow
	}
	return mw.cfg.RateLimit.GeneralLimit, mw.cfg.RateLimit.GeneralWindow
}

// skipRateLimit exempts probes and processor callbacks.
func skipRateLimit(path string) bool {
	switch path {
	case "/", "/health", "/health/database", "/health/cache", "/metrics", "/payments/webhook":
		return true
	}
	return false
}

// getClientIP returns the host part of RemoteAddr, which RealIP has already rewritten behind a proxy.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimitKey groups dynamic routes so ids do not create one counter each.
func rateLimitKey(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == loginPath {
		return path
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "/" + strings.Join(parts, "/")
}

// RateLimitMiddleware implements a fixed-window limit in Redis. Cache failures let the request through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || !mw.cacheService.Enabled() || skipRateLimit(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := getClientIP(r)
			endpoint := rateLimitKey(r.URL.Path)
			limit, window := mw.getRateLimitForEndpoint(r.URL.Path)

			count, err := mw.cacheService.IncrementRateLimit(r.Context(), clientIP, endpoint, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				gecho.TooManyRequests(w,
					gecho.WithMessage("Rate limit exceeded. Please try again later."),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"window":      window.String(),
						"retry_after": int(window.Seconds()),
					}),
					gecho.Send(),
				)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", limit-count))
			next.ServeHTTP(w, r)
		})
	}
}
