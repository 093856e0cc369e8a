package lib

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	id := uuid.New()
	claims := NewAdminClaims(id, "admin@example.com", time.Hour)

	token, err := SignAccessToken(claims, "secret")
	require.NoError(t, err)

	parsed, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, id, parsed.Sub)
	assert.Equal(t, AdminRole, parsed.Role)
	assert.Equal(t, "admin@example.com", parsed.Email)
	assert.Equal(t, claims.Jti, parsed.Jti)
}

func TestParseTokenRejects(t *testing.T) {
	valid, err := SignAccessToken(NewAdminClaims(uuid.New(), "a@example.com", time.Hour), "secret")
	require.NoError(t, err)

	expired, err := SignAccessToken(NewAdminClaims(uuid.New(), "a@example.com", -time.Minute), "secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
		{"garbage", "not.a.token", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestExtractClaimsFromCookie(t *testing.T) {
	token, err := SignAccessToken(NewAdminClaims(uuid.New(), "a@example.com", time.Hour), "secret")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/admin/orders", nil)
	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: token})

	claims, err := ExtractClaims(r, "secret")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)

	_, err = ExtractClaims(httptest.NewRequest("GET", "/admin/orders", nil), "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
