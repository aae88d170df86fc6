package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecorder_CountsAndServes(t *testing.T) {
	recorder := NewRecorder()

	recorder.CacheHit("dashboard-stats")
	recorder.CacheMiss("dashboard-stats")
	recorder.FetchDispatched("dashboard-stats", "initial")
	recorder.FetchFailed("dashboard-stats")
	recorder.ScopeSwitched("location")
	recorder.DisclosureResolved("redirect")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("metrics endpoint status = %d", w.Code)
	}
	body := w.Body.String()
	for _, metric := range []string{
		"console_cache_hits_total",
		"console_fetches_total",
		"console_scope_switches_total",
		"console_disclosure_resolutions_total",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	// Two recorders must not collide on registration.
	a := NewRecorder()
	b := NewRecorder()
	a.CacheHit("x")
	b.CacheHit("x")
}
