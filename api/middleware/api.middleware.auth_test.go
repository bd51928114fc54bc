package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/airx/beds/server/hub/internal/models"
	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRequireIngestKey(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		sent       string
		code       int
	}{
		{"match", "k1", "k1", http.StatusNoContent},
		{"mismatch", "k1", "k2", http.StatusUnauthorized},
		{"missing header", "k1", "", http.StatusUnauthorized},
		{"unconfigured key admits nothing", "", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/sensors/ingest", nil)
			if tc.sent != "" {
				req.Header.Set(IngestKeyHeader, tc.sent)
			}
			rec := httptest.NewRecorder()
			RequireIngestKey(tc.configured)(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	run := func(user *models.User) int {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		if user != nil {
			req = req.WithContext(WithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		RequireAdmin(okHandler).ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, run(nil))
	assert.Equal(t, http.StatusForbidden, run(&models.User{Role: models.RoleCustomer}))
	assert.Equal(t, http.StatusNoContent, run(&models.User{Role: models.RoleAdmin}))
	assert.Equal(t, http.StatusNoContent, run(&models.User{Role: models.RoleSuperAdmin}))
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, extractToken(req))

	req.Header.Set("Authorization", "bearer abc")
	assert.Equal(t, "abc", extractToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, extractToken(req))
}
