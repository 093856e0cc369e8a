package lib

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldError represents a clean validation error for APIs
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned for missing or invalid input.
type ValidationError struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

type PermissionDeniedError struct {
	Reason string
}

func (e *PermissionDeniedError) Error() string {
	return "permission denied: " + e.Reason
}

type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// ExternalServiceError wraps a failure of a third party. Err is for logs only.
type ExternalServiceError struct {
	Service   string
	Retryable bool
	Err       error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// SignatureError marks a webhook payload that could not be authenticated.
type SignatureError struct {
	Err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid webhook signature: %v", e.Err)
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}

// SQLState extracts the Postgres error code from either supported driver.
func SQLState(err error) string {
	var driverErr pgdriver.Error
	if errors.As(err, &driverErr) {
		return driverErr.Field('C')
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// MapPgError converts database errors into the API error taxonomy. resource names the row kind for NotFound.
func MapPgError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NewNotFoundError(resource)
	}
	switch SQLState(err) {
	case "23505": // unique_violation
		return &ConflictError{Message: resource + " already exists", Err: err}
	case "23503", "23001": // foreign_key_violation, restrict_violation
		return &ConflictError{Message: resource + " is still referenced", Err: err}
	case "22P02", "22003": // invalid_text_representation, numeric_value_out_of_range
		return &ValidationError{Message: "invalid value for " + resource}
	}
	return err
}
