package lib

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// NewCartToken returns an opaque cart identifier.
func NewCartToken() string {
	return uuid.NewString()
}

// NewDeviceID returns an opaque browser identifier.
func NewDeviceID() string {
	return uuid.NewString()
}

// IsValidOpaqueID rejects cookie values that could not have been issued by this server.
func IsValidOpaqueID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
