package lib

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	t.Run("no rows becomes not found", func(t *testing.T) {
		err := MapPgError(fmt.Errorf("select: %w", sql.ErrNoRows), "product")

		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
		assert.Equal(t, "product not found", err.Error())
	})

	t.Run("unique violation becomes conflict", func(t *testing.T) {
		err := MapPgError(&pgconn.PgError{Code: "23505"}, "customer")

		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("foreign key violation becomes conflict", func(t *testing.T) {
		err := MapPgError(&pgconn.PgError{Code: "23503"}, "product")

		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, "product is still referenced", err.Error())
	})

	t.Run("other errors pass through", func(t *testing.T) {
		original := errors.New("boom")
		assert.Same(t, original, MapPgError(original, "order"))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, MapPgError(nil, "order"))
	})
}

func TestSQLState(t *testing.T) {
	assert.Equal(t, "40001", SQLState(fmt.Errorf("tx: %w", &pgconn.PgError{Code: "40001"})))
	assert.Equal(t, "", SQLState(errors.New("plain")))
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("create intent: %w", &ExternalServiceError{Service: "stripe", Retryable: true, Err: cause})

	var ext *ExternalServiceError
	assert.ErrorAs(t, err, &ext)
	assert.True(t, ext.Retryable)
	assert.ErrorIs(t, err, cause)
}
