package lib

import (
	"ashtray_server/structs"
	"net/http"
	"time"
)

const (
	CartCookieName   = "cart_id"
	DeviceCookieName = "device_id"
	AccessCookieName = "admin_access_token"
	CSRFCookieName   = "csrf"
)

func baseCookie(key, val string, cfg *structs.CookieConfig) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if cfg.Secure {
		// Required for cross-site storefronts; browsers reject SameSite=None without Secure.
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     key,
		Value:    val,
		Path:     "/",
		Domain:   cfg.Domain,
		Secure:   cfg.Secure,
		SameSite: sameSite,
	}
}

// SetCookie sets a secure, HttpOnly cookie for authentication/session usage
func SetCookie(key, val string, expiry time.Time, cfg *structs.CookieConfig, w http.ResponseWriter) {
	cookie := baseCookie(key, val, cfg)
	cookie.Expires = expiry
	cookie.MaxAge = int(time.Until(expiry).Seconds())
	cookie.HttpOnly = true

	http.SetCookie(w, cookie)
}

// SetCartCookie stores the cart token. Storefront scripts read it, so it is not HttpOnly.
func SetCartCookie(token string, cfg *structs.CookieConfig, w http.ResponseWriter) {
	cookie := baseCookie(CartCookieName, token, cfg)
	cookie.MaxAge = int(cfg.CartMaxAge.Seconds())
	cookie.Expires = time.Now().Add(cfg.CartMaxAge)
	cookie.HttpOnly = false

	http.SetCookie(w, cookie)
}

func SetDeviceCookie(deviceID string, cfg *structs.CookieConfig, w http.ResponseWriter) {
	cookie := baseCookie(DeviceCookieName, deviceID, cfg)
	cookie.MaxAge = int(cfg.DeviceMaxAge.Seconds())
	cookie.Expires = time.Now().Add(cfg.DeviceMaxAge)
	cookie.HttpOnly = true

	http.SetCookie(w, cookie)
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, cfg *structs.CookieConfig, w http.ResponseWriter) {
	cookie := baseCookie(key, "", cfg)
	cookie.Expires = time.Now().Add(-time.Hour)
	cookie.MaxAge = -1
	cookie.HttpOnly = true

	http.SetCookie(w, cookie)
}

// SetCSRFCookie sets a CSRF token cookie that must be readable by JavaScript
func SetCSRFCookie(val string, expiry time.Time, cfg *structs.CookieConfig, w http.ResponseWriter) {
	cookie := baseCookie(CSRFCookieName, val, cfg)
	cookie.Expires = expiry
	cookie.MaxAge = int(time.Until(expiry).Seconds())
	cookie.HttpOnly = false

	http.SetCookie(w, cookie)
}
