package usecase

// Metrics records cache, fetch and disclosure activity. Implementations must
// be safe for concurrent use. The prometheus-backed implementation lives in
// internal/infrastructure/telemetry.
type Metrics interface {
	CacheHit(resource string)
	CacheMiss(resource string)
	FetchDispatched(resource, reason string)
	FetchFailed(resource string)
	ScopeSwitched(kind string)
	DisclosureResolved(outcome string)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) CacheHit(string)             {}
func (NopMetrics) CacheMiss(string)            {}
func (NopMetrics) FetchDispatched(_, _ string) {}
func (NopMetrics) FetchFailed(string)          {}
func (NopMetrics) ScopeSwitched(string)        {}
func (NopMetrics) DisclosureResolved(string)   {}
