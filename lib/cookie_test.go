package lib

import (
	"ashtray_server/structs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "cookie not set", "expected cookie %q", name)
	return nil
}

func TestSetCartCookie(t *testing.T) {
	cfg := &structs.CookieConfig{Secure: true, CartMaxAge: 30 * 24 * time.Hour}
	w := httptest.NewRecorder()

	SetCartCookie("token-1", cfg, w)

	c := findCookie(t, w, CartCookieName)
	assert.Equal(t, "token-1", c.Value)
	assert.False(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 30*24*60*60, c.MaxAge)
}

func TestSetDeviceCookie(t *testing.T) {
	cfg := &structs.CookieConfig{DeviceMaxAge: 365 * 24 * time.Hour}
	w := httptest.NewRecorder()

	SetDeviceCookie("device-1", cfg, w)

	c := findCookie(t, w, DeviceCookieName)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 365*24*60*60, c.MaxAge)
}

func TestClearCookie(t *testing.T) {
	w := httptest.NewRecorder()

	ClearCookie(AccessCookieName, &structs.CookieConfig{}, w)

	c := findCookie(t, w, AccessCookieName)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
}

func TestCSRFTokensMatch(t *testing.T) {
	assert.True(t, CSRFTokensMatch("abc", "abc"))
	assert.False(t, CSRFTokensMatch("abc", "abd"))
	assert.False(t, CSRFTokensMatch("", ""))
}
