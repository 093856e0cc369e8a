package handling

import (
	"ashtray_server/lib"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	logger := gecho.NewDefaultLogger()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", lib.NewValidationError("cart is empty"), http.StatusBadRequest},
		{"not found", lib.NewNotFoundError("product"), http.StatusNotFound},
		{"permission", &lib.PermissionDeniedError{Reason: "role"}, http.StatusForbidden},
		{"conflict", &lib.ConflictError{Message: "product is still referenced"}, http.StatusConflict},
		{"signature", &lib.SignatureError{Err: errors.New("bad sig")}, http.StatusBadRequest},
		{"external", &lib.ExternalServiceError{Service: "stripe", Err: errors.New("card_declined")}, http.StatusInternalServerError},
		{"external retryable", &lib.ExternalServiceError{Service: "stripe", Retryable: true, Err: errors.New("timeout")}, http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("checkout: %w", lib.NewValidationError("cart is empty")), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(tt.err, "Something went wrong", logger, w)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandleErrorHidesExternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(&lib.ExternalServiceError{Service: "stripe", Err: errors.New("sk_live_secret leaked")}, "x", gecho.NewDefaultLogger(), w)

	assert.NotContains(t, w.Body.String(), "sk_live_secret")
}

func TestParseListOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/orders?page=2&page_size=500&status=paid&q=%20lamp%20", nil)

	opts, err := ParseListOptions(r, "status", "email")
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 100, opts.PageSize)
	assert.Equal(t, "lamp", opts.Search)
	assert.Equal(t, map[string]string{"status": "paid"}, opts.Filters)

	_, err = ParseListOptions(httptest.NewRequest("GET", "/products?page=zero", nil))
	var ve *lib.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42", "product")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseID("-1", "product")
	assert.Error(t, err)
}
