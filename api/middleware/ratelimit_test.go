package middleware

import (
	"ashtray_server/services"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable, skipping: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRateLimitAgainstRedis(t *testing.T) {
	client := startRedis(t)

	mw := newTestMiddleware(t)
	mw.cacheService = services.NewCacheServiceWithClient(gecho.NewDefaultLogger(), mw.cfg.Cache, client)
	mw.cfg.RateLimit.Enabled = true
	mw.cfg.RateLimit.GeneralLimit = 3
	mw.cfg.RateLimit.GeneralWindow = time.Minute
	mw.cfg.RateLimit.AuthLimit = 1
	mw.cfg.RateLimit.AuthWindow = time.Minute

	handler := mw.RateLimitMiddleware()(http.HandlerFunc(okHandler))

	send := func(method, path, ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(method, path, nil)
		r.RemoteAddr = ip + ":4000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("general limit", func(t *testing.T) {
		for i := range 3 {
			w := send(http.MethodGet, "/products", "198.51.100.1")
			require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		}
		w := send(http.MethodGet, "/products", "198.51.100.1")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "60", w.Header().Get("Retry-After"))

		// other clients are counted separately
		assert.Equal(t, http.StatusOK, send(http.MethodGet, "/products", "198.51.100.2").Code)
	})

	t.Run("login is stricter", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send(http.MethodPost, "/admin/auth/login", "198.51.100.3").Code)
		assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/admin/auth/login", "198.51.100.3").Code)
	})

	t.Run("webhook is exempt", func(t *testing.T) {
		for range 5 {
			assert.Equal(t, http.StatusOK, send(http.MethodPost, "/payments/webhook", "198.51.100.4").Code)
		}
	})
}
