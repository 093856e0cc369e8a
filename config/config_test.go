package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg := Load()
	require.NotNil(t, cfg.Stripe)

	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 30*24*time.Hour, cfg.Cookies.CartMaxAge)
	assert.Equal(t, 365*24*time.Hour, cfg.Cookies.DeviceMaxAge)
	assert.Equal(t, 10*time.Second, cfg.Stripe.Timeout)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, "http://localhost:3000/checkout-success", cfg.Stripe.DefaultSuccessURL)
	assert.Equal(t, "http://localhost:3000/cart", cfg.Stripe.DefaultCancelURL)
	assert.False(t, cfg.Cookies.Secure)
}

func TestLoadProductionDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.True(t, cfg.Cookies.Secure)
}

func TestDurationParsing(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go duration", "2500ms", 2500 * time.Millisecond},
		{"bare seconds", "30", 30 * time.Second},
		{"garbage falls back", "soon", time.Minute},
		{"blank falls back", "  ", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvAsTimeDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestSliceParsing(t *testing.T) {
	t.Setenv("TEST_SLICE", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsSlice("TEST_SLICE", nil))
}
