package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserveUpstream(t *testing.T) {
	m := New()

	m.ObserveUpstream("kit", OutcomeSuccess, 0.2)
	m.ObserveUpstream("kit", OutcomeSuccess, 0.3)
	m.ObserveUpstream("kit", OutcomeCached, 0)

	body := scrape(t, m)
	assert.Contains(t, body, `operator_journal_upstream_requests_total{outcome="success",provider="kit"} 2`)
	assert.Contains(t, body, `operator_journal_upstream_requests_total{outcome="cached",provider="kit"} 1`)
	assert.Contains(t, body, `operator_journal_upstream_request_duration_seconds_count{provider="kit"} 2`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveUpstream("beehiiv", OutcomeError, 1)
		m.RecordRateLimitHit("/api/v1/subscribe")
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordRateLimitHit("/api/v1/subscribe")

	assert.Contains(t, scrape(t, m), `operator_journal_rate_limit_hits_total{path="/api/v1/subscribe"} 1`)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	return rec.Body.String()
}
