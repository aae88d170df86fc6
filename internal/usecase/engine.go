package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/retailpulse/console/internal/domain"
	"go.uber.org/zap"
)

// EntryStatus is the lifecycle state of a cached resource entry.
type EntryStatus string

const (
	StatusIdle    EntryStatus = "idle"
	StatusLoading EntryStatus = "loading"
	StatusFresh   EntryStatus = "fresh"
	StatusStale   EntryStatus = "stale"
	StatusError   EntryStatus = "error"
)

// Entry is the read model the rendering layer consumes for one
// (resource, scope) pair. Value is nil until the first successful fetch;
// after a failed refresh the last good value is kept alongside Err.
type Entry struct {
	Value     any
	FetchedAt time.Time
	Status    EntryStatus
	Err       error
}

// Fetcher loads the current upstream value for one (resource, scope) pair.
// The engine supplies the context; fetchers must honor its deadline.
type Fetcher func(ctx context.Context) (any, error)

// EngineConfig tunes the freshness policy.
type EngineConfig struct {
	// StaleAfter is the freshness window. Entries older than this are
	// served stale-while-revalidate.
	StaleAfter time.Duration

	// StaleAfterByResource overrides StaleAfter for named resources.
	StaleAfterByResource map[string]time.Duration

	// RefreshInterval is the periodic background refetch cadence, active
	// only while a key has at least one subscriber.
	RefreshInterval time.Duration

	// FetchTimeout bounds a single fetcher invocation.
	FetchTimeout time.Duration

	// MaxEntries bounds the cache table. When exceeded, the oldest entry
	// without subscribers is replaced. Zero means the default.
	MaxEntries int
}

const (
	defaultStaleAfter      = 60 * time.Second
	defaultRefreshInterval = 30 * time.Second
	defaultFetchTimeout    = 15 * time.Second
	defaultMaxEntries      = 256

	// maxBackoffShift caps the periodic-refresh backoff at 8x the interval.
	maxBackoffShift = 3
)

// Engine caches scoped resources and keeps them fresh. Reads are synchronous
// snapshots and never block on the network; fetches run asynchronously and
// are tagged with the ActiveScope epoch captured at dispatch, so a response
// that completes after a scope switch is discarded rather than applied.
type Engine struct {
	mu      sync.Mutex
	cfg     EngineConfig
	scopes  *ScopeController
	metrics Metrics
	log     *zap.SugaredLogger
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	resource string
	scope    domain.ScopeKey

	value     any
	hasValue  bool
	fetchedAt time.Time
	status    EntryStatus
	err       error

	fetcher       Fetcher
	inFlight      bool
	inFlightEpoch uint64
	invalidated   bool

	// staleRefetched limits revalidation to one dispatch per transition
	// into stale.
	staleRefetched bool

	failCount     int
	lastAttemptAt time.Time

	subs        map[int]func(Entry)
	nextSubID   int
	stopRefresh chan struct{}
}

// NewEngine creates a synchronization engine bound to the given scope
// controller. Zero config fields fall back to the dashboard defaults.
func NewEngine(cfg EngineConfig, scopes *ScopeController, metrics Metrics, log *zap.SugaredLogger) *Engine {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Engine{
		cfg:     cfg,
		scopes:  scopes,
		metrics: metrics,
		log:     log,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the current cached state for (resource, scope) and, depending
// on freshness, dispatches an asynchronous fetch. It never blocks on the
// fetch itself: first requests return a loading entry, stale entries return
// the previous value while a revalidation runs in the background.
func (e *Engine) Get(resource string, scope domain.ScopeKey, fetch Fetcher) Entry {
	e.mu.Lock()
	ent := e.entryLocked(resource, scope)
	if fetch != nil {
		ent.fetcher = fetch
	}

	now := time.Now()
	statusBefore := ent.status
	e.advanceStalenessLocked(ent, now)

	if reason := e.dispatchReasonLocked(ent, now); reason != "" {
		e.dispatchLocked(ent, reason)
	}

	if ent.hasValue {
		e.metrics.CacheHit(resource)
	} else {
		e.metrics.CacheMiss(resource)
	}

	var pending []func()
	if ent.status != statusBefore {
		pending = e.notifyLocked(ent)
	}
	snap := snapshotLocked(ent)
	e.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return snap
}

// Invalidate forces the next Get for (resource, scope) to refetch regardless
// of freshness. It does not discard the cached value.
func (e *Engine) Invalidate(resource string, scope domain.ScopeKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ent, ok := e.entries[domain.KeyFor(resource, scope)]; ok {
		ent.invalidated = true
	}
}

// Subscribe registers a callback invoked on every state transition of the
// entry for (resource, scope). While at least one subscriber is registered
// the entry is refreshed periodically in the background; the returned
// function releases the registration and stops the refresh once the last
// subscriber is gone.
func (e *Engine) Subscribe(resource string, scope domain.ScopeKey, fn func(Entry)) func() {
	e.mu.Lock()
	ent := e.entryLocked(resource, scope)
	id := ent.nextSubID
	ent.nextSubID++
	ent.subs[id] = fn
	if len(ent.subs) == 1 {
		e.startRefreshLocked(ent)
	}
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := ent.subs[id]; !ok {
			return
		}
		delete(ent.subs, id)
		if len(ent.subs) == 0 && ent.stopRefresh != nil {
			close(ent.stopRefresh)
			ent.stopRefresh = nil
		}
	}
}

// Peek returns the cached state without dispatching a fetch.
func (e *Engine) Peek(resource string, scope domain.ScopeKey) Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ent, ok := e.entries[domain.KeyFor(resource, scope)]; ok {
		e.advanceStalenessLocked(ent, time.Now())
		return snapshotLocked(ent)
	}
	return Entry{Status: StatusIdle}
}

func (e *Engine) entryLocked(resource string, scope domain.ScopeKey) *cacheEntry {
	key := domain.KeyFor(resource, scope)
	if ent, ok := e.entries[key]; ok {
		return ent
	}
	if len(e.entries) >= e.cfg.MaxEntries {
		e.evictOneLocked()
	}
	ent := &cacheEntry{
		resource: resource,
		scope:    scope,
		status:   StatusIdle,
		subs:     make(map[int]func(Entry)),
	}
	e.entries[key] = ent
	return ent
}

// evictOneLocked drops the oldest entry that is neither observed nor
// mid-fetch. Entries persist for the session otherwise; this only bounds
// growth across many locations.
func (e *Engine) evictOneLocked() {
	var oldestKey string
	var oldest *cacheEntry
	for key, ent := range e.entries {
		if len(ent.subs) > 0 || ent.inFlight {
			continue
		}
		if oldest == nil || ent.fetchedAt.Before(oldest.fetchedAt) {
			oldestKey, oldest = key, ent
		}
	}
	if oldest != nil {
		delete(e.entries, oldestKey)
	}
}

func (e *Engine) staleAfterFor(resource string) time.Duration {
	if d, ok := e.cfg.StaleAfterByResource[resource]; ok && d > 0 {
		return d
	}
	return e.cfg.StaleAfter
}

func (e *Engine) advanceStalenessLocked(ent *cacheEntry, now time.Time) {
	if ent.status == StatusFresh && now.Sub(ent.fetchedAt) >= e.staleAfterFor(ent.resource) {
		ent.status = StatusStale
		ent.staleRefetched = false
	}
}

// dispatchReasonLocked decides whether Get should trigger a fetch. An empty
// reason means no dispatch. De-duplication: while a fetch tagged with the
// current epoch is in flight, no second one is issued for the same key.
func (e *Engine) dispatchReasonLocked(ent *cacheEntry, now time.Time) string {
	if ent.fetcher == nil {
		return ""
	}
	if ent.inFlight && ent.inFlightEpoch == e.scopes.Epoch() {
		return ""
	}
	switch {
	case ent.invalidated:
		return "invalidate"
	case ent.status == StatusIdle:
		return "initial"
	case ent.status == StatusStale && !ent.staleRefetched:
		return "stale"
	case ent.status == StatusError && now.Sub(ent.lastAttemptAt) >= e.staleAfterFor(ent.resource):
		// A failed entry is retried at the next staleness point, not on
		// every read.
		return "retry"
	}
	return ""
}

func (e *Engine) dispatchLocked(ent *cacheEntry, reason string) {
	epoch := e.scopes.Epoch()
	ent.inFlight = true
	ent.inFlightEpoch = epoch
	ent.invalidated = false
	ent.lastAttemptAt = time.Now()
	if ent.status == StatusIdle {
		ent.status = StatusLoading
	}
	if ent.status == StatusStale {
		ent.staleRefetched = true
	}
	e.metrics.FetchDispatched(ent.resource, reason)
	go e.runFetch(ent, ent.fetcher, epoch)
}

func (e *Engine) runFetch(ent *cacheEntry, fetch Fetcher, epoch uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.FetchTimeout)
	defer cancel()
	value, err := fetch(ctx)

	e.mu.Lock()
	if !ent.inFlight || ent.inFlightEpoch != epoch {
		// A newer dispatch superseded this one.
		e.mu.Unlock()
		return
	}
	ent.inFlight = false

	if epoch != e.scopes.Epoch() {
		// The active scope moved on while this fetch was in flight. The
		// response is inert: never applied, out of order or otherwise.
		var pending []func()
		if ent.hasValue {
			// The revalidation never landed, so the next read after a
			// switch back may dispatch another one.
			ent.staleRefetched = false
		} else {
			ent.status = StatusIdle
			pending = e.notifyLocked(ent)
		}
		e.mu.Unlock()
		e.log.Debugw("discarded fetch for superseded epoch",
			"resource", ent.resource, "scope", ent.scope.String(), "epoch", epoch)
		for _, fn := range pending {
			fn()
		}
		return
	}

	if err != nil {
		ent.status = StatusError
		if errors.Is(err, domain.ErrFetchFailure) {
			ent.err = err
		} else {
			ent.err = fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
		}
		ent.failCount++
		e.metrics.FetchFailed(ent.resource)
		e.log.Warnw("fetch failed",
			"resource", ent.resource, "scope", ent.scope.String(), "failures", ent.failCount, "error", err)
	} else {
		ent.value = value
		ent.hasValue = true
		ent.fetchedAt = time.Now()
		ent.status = StatusFresh
		ent.err = nil
		ent.failCount = 0
		ent.staleRefetched = false
	}

	pending := e.notifyLocked(ent)
	e.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func (e *Engine) startRefreshLocked(ent *cacheEntry) {
	stop := make(chan struct{})
	ent.stopRefresh = stop
	go func() {
		ticker := time.NewTicker(e.cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.refreshTick(ent)
			}
		}
	}()
}

func (e *Engine) refreshTick(ent *cacheEntry) {
	e.mu.Lock()
	now := time.Now()
	statusBefore := ent.status
	e.advanceStalenessLocked(ent, now)

	skip := ent.fetcher == nil ||
		len(ent.subs) == 0 ||
		(ent.inFlight && ent.inFlightEpoch == e.scopes.Epoch())

	// Back off a failing upstream instead of hammering it every interval.
	if !skip && ent.failCount > 0 {
		shift := ent.failCount
		if shift > maxBackoffShift {
			shift = maxBackoffShift
		}
		if now.Sub(ent.lastAttemptAt) < e.cfg.RefreshInterval<<shift {
			skip = true
		}
	}

	if !skip {
		e.dispatchLocked(ent, "periodic")
	}
	var pending []func()
	if ent.status != statusBefore {
		pending = e.notifyLocked(ent)
	}
	e.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func (e *Engine) notifyLocked(ent *cacheEntry) []func() {
	if len(ent.subs) == 0 {
		return nil
	}
	snap := snapshotLocked(ent)
	fns := make([]func(), 0, len(ent.subs))
	for _, cb := range ent.subs {
		cb := cb
		fns = append(fns, func() { cb(snap) })
	}
	return fns
}

func snapshotLocked(ent *cacheEntry) Entry {
	return Entry{
		Value:     ent.value,
		FetchedAt: ent.fetchedAt,
		Status:    ent.status,
		Err:       ent.err,
	}
}
