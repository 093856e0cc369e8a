package lib

import (
	"ashtray_server/structs"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const AdminRole = "admin"

type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SignAccessToken issues an HS256 token for the given subject.
func SignAccessToken(claims *structs.AuthClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Sub.String(),
			IssuedAt:  jwt.NewNumericDate(claims.Iat),
			ExpiresAt: jwt.NewNumericDate(claims.Exp),
			ID:        claims.Jti.String(),
		},
	})
	return token.SignedString([]byte(secret))
}

// ParseToken parses and validates a JWT token string and returns the claims
func ParseToken(tokenStr string, secret string) (*structs.AuthClaims, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sub claim", ErrInvalidToken)
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid jti claim", ErrInvalidToken)
	}

	out := &structs.AuthClaims{
		Sub:   sub,
		Email: claims.Email,
		Role:  claims.Role,
		Jti:   jti,
	}
	if claims.IssuedAt != nil {
		out.Iat = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.Exp = claims.ExpiresAt.Time
	}
	return out, nil
}

// ExtractClaims reads the admin access cookie and validates it.
func ExtractClaims(r *http.Request, secret string) (*structs.AuthClaims, error) {
	accessToken, err := GetCookieValue(AccessCookieName, r)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return ParseToken(accessToken, secret)
}

// NewAdminClaims builds claims for an admin session lasting ttl.
func NewAdminClaims(id uuid.UUID, email string, ttl time.Duration) *structs.AuthClaims {
	now := time.Now()
	return &structs.AuthClaims{
		Sub:   id,
		Email: email,
		Role:  AdminRole,
		Iat:   now,
		Exp:   now.Add(ttl),
		Jti:   uuid.New(),
	}
}
