package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsCarryStatusCodes(t *testing.T) {
	cases := []struct {
		err  *APIError
		code int
	}{
		{NewValidationError("bad", nil), http.StatusBadRequest},
		{NewDuplicateError("dup", nil), http.StatusConflict},
		{NewProtectedError("admin", nil), http.StatusForbidden},
		{NewNotFoundError("gone", nil), http.StatusNotFound},
		{NewDatabaseError("db", nil), http.StatusInternalServerError},
		{NewAuthError("who", nil), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code, string(tc.err.Type))
	}
}

func TestPredicatesSeeWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", NewDuplicateError("username taken", nil))

	assert.True(t, IsDuplicate(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, IsProtected(fmt.Errorf("plain")))
}

func TestToAPIErrorFallsBackToInternal(t *testing.T) {
	apiErr := ToAPIError(fmt.Errorf("disk full"), "failed to save")

	assert.Equal(t, ErrorTypeInternal, apiErr.Type)
	assert.Equal(t, "failed to save", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "disk full")
}

func TestResponseEnvelope(t *testing.T) {
	body, err := json.Marshal(NewNotFoundError("site not found", nil).WithRequestID("req-1").Response())
	assert.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"type":"not_found","message":"site not found","request_id":"req-1"}`, string(body))
}
