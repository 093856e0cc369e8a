package lib

import (
	"crypto/subtle"
)

// GenerateCSRFToken returns a random double-submit token.
func GenerateCSRFToken() (string, error) {
	return GenerateRandomToken()
}

// CSRFTokensMatch compares the cookie and header values in constant time.
func CSRFTokensMatch(cookieValue, headerValue string) bool {
	if cookieValue == "" || headerValue == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieValue), []byte(headerValue)) == 1
}
