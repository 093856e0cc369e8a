package structs

import (
	"time"

	"github.com/google/uuid"
)

// ArgonParams are the argon2id cost settings encoded into every admin password hash.
type ArgonParams struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// AuthClaims is the decoded admin access token. Role gates the admin routes.
type AuthClaims struct {
	Sub   uuid.UUID `json:"sub"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Iat   time.Time `json:"iat"`
	Exp   time.Time `json:"exp"`
	Jti   uuid.UUID `json:"jti"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type AdminSessionResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
}
