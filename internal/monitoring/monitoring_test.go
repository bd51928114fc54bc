package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, s *Service) string {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecordersExposeCounters(t *testing.T) {
	s := NewServiceForTesting()

	s.RecordIngest()
	s.RecordIngest()
	s.RecordStatus("ALERT")
	s.RecordStorageError("add_measurement")
	s.RecordEvent("site_deletion", map[string]string{"site_id": "site-1"})
	s.RecordRequest("/api/sites", http.StatusOK)

	body := scrape(t, s)
	assert.Contains(t, body, "beds_measurements_ingested_total 2")
	assert.Contains(t, body, `beds_site_status_total{level="ALERT"} 1`)
	assert.Contains(t, body, `beds_storage_errors_total{op="add_measurement"} 1`)
	assert.Contains(t, body, `beds_events_total{event="site_deletion"} 1`)
	assert.Contains(t, body, `beds_http_requests_total{code="200",route="/api/sites"} 1`)
}

func TestServicesDoNotShareRegistries(t *testing.T) {
	a := NewService(Config{})
	b := NewService(Config{MetricsPath: "/internal/metrics"})

	a.RecordIngest()

	assert.Contains(t, scrape(t, a), "beds_measurements_ingested_total 1")
	assert.Contains(t, scrape(t, b), "beds_measurements_ingested_total 0")
	assert.Equal(t, "/metrics", a.MetricsPath())
	assert.Equal(t, "/internal/metrics", b.MetricsPath())
}
