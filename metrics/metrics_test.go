package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerServesRegisteredCollectors(t *testing.T) {
	InitMetrics()
	InitMetrics()

	RequestCounter.WithLabelValues("200").Inc()
	CacheLookups.WithLabelValues("miss").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`curseproxy_requests_total{status="200"}`,
		`curseproxy_version_cache_lookups_total{result="miss"}`,
		"curseproxy_version_cache_entries",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in metrics output", want)
		}
	}
}
