package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCollectors(t *testing.T) {
	ProviderCalls.WithLabelValues("metrics-test", OutcomeSuccess).Inc()
	ProviderDuration.WithLabelValues("metrics-test").Observe(0.3)
	CacheLookups.WithLabelValues("metrics-test", "miss").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	for _, name := range []string{
		"llm_provider_calls_total",
		"llm_provider_call_duration_seconds",
		"llm_cache_lookups_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in exposition", name)
		}
	}
}
