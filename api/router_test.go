package api

import (
	"ashtray_server/config"
	"ashtray_server/lib"
	"ashtray_server/services"
	"ashtray_server/structs"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const routerWebhookSecret = "whsec_router_test"

// testConfig returns defaults with external services switched off.
func testConfig() *structs.Config {
	cfg := config.Load()
	cfg.Server.LogLevel = "error"
	cfg.Cache.Enabled = false
	cfg.RateLimit.Enabled = false
	cfg.Email.ApiKey = ""
	cfg.Auth.AccessTokenSecret = "router-test-secret"
	cfg.Stripe.PublishableKey = "pk_test_router"
	cfg.Stripe.SecretKey = ""
	cfg.Stripe.WebhookSecret = routerWebhookSecret
	return cfg
}

// newRouterWithoutDatabase serves only the routes that never reach Postgres.
func newRouterWithoutDatabase(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()
	logger := gecho.NewDefaultLogger()
	sm := services.NewServiceManagerWithProcessor(logger, cfg, nil, services.NewStripeProcessor(logger, cfg.Stripe))
	return App(cfg, sm)
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func signedWebhook(t *testing.T, event map[string]any) (payload []byte, header string) {
	t.Helper()
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   raw,
		Secret:    routerWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestRouterWithoutDatabase(t *testing.T) {
	router := newRouterWithoutDatabase(t)

	t.Run("welcome", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("unknown route", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("server health issues a device cookie", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		var device *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == lib.DeviceCookieName {
				device = c
			}
		}
		require.NotNil(t, device)
		assert.True(t, lib.IsValidOpaqueID(device.Value))
	})

	t.Run("payment config exposes only the publishable key", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/payments/config", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pk_test_router")
		assert.NotContains(t, w.Body.String(), routerWebhookSecret)
	})

	t.Run("invalid product id", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin routes need a token", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = serve(router, httptest.NewRequest(http.MethodDelete, "/admin/products/1", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login needs a csrf token", func(t *testing.T) {
		body := strings.NewReader(`{"email":"admin@example.com","password":"password123"}`)
		w := serve(router, httptest.NewRequest(http.MethodPost, "/admin/auth/login", body))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("csrf token endpoint sets a readable cookie", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/admin/auth/csrf", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var csrf *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == lib.CSRFCookieName {
				csrf = c
			}
		}
		require.NotNil(t, csrf)
		assert.False(t, csrf.HttpOnly)
		assert.Contains(t, w.Body.String(), csrf.Value)
	})

	t.Run("webhook rejects a bad signature", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{"id":"evt_x"}`))
		r.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
		w := serve(router, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("webhook rejects oversized payloads", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(make([]byte, 65*1024)))
		r.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
		w := serve(router, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("webhook acknowledges a failed payment without writes", func(t *testing.T) {
		payload, header := signedWebhook(t, map[string]any{
			"id":          "evt_failed",
			"object":      "event",
			"type":        "payment_intent.payment_failed",
			"api_version": "2025-03-31.basil",
			"created":     time.Now().Unix(),
			"data": map[string]any{"object": map[string]any{
				"id":                 "pi_failed",
				"object":             "payment_intent",
				"metadata":           map[string]string{"cart_id": "cart-x"},
				"last_payment_error": map[string]any{"message": "card declined"},
			}},
		})

		r := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
		r.Header.Set("Stripe-Signature", header)
		w := serve(router, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "logged")
	})

	t.Run("metrics are exported by route pattern", func(t *testing.T) {
		serve(router, httptest.NewRequest(http.MethodGet, "/products/abc", nil))

		w := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, w.Code)
		body, err := io.ReadAll(w.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "api_http_requests_total")
		assert.Contains(t, string(body), `path="/products/{id}"`)
		assert.Contains(t, string(body), "shop_webhook_events_total")
	})
}
