package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.ObserveHTTP("GET", "/api/v1/events", 200, 20*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/events", 200, 30*time.Millisecond)
	m.ObserveHTTP("POST", "", 404, time.Millisecond)
	m.ObserveUpload("EVENT_BANNER", "rejected")
	m.ObserveLLM("openai", "error", time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="GET",route="/api/v1/events",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="POST",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, `http_request_duration_seconds_count{method="GET",route="/api/v1/events"} 2`)
	assert.Contains(t, body, `uploads_total{kind="EVENT_BANNER",outcome="rejected"} 1`)
	assert.Contains(t, body, `llm_requests_total{outcome="error",provider="openai"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.ObserveUpload("AVATAR", "stored")
		m.ObserveLLM("gemini", "ok", time.Second)
	})
}
