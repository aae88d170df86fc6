package usecase

import (
	"sync"

	"github.com/retailpulse/console/internal/domain"
	"go.uber.org/zap"
)

// ScopeChange is the consistent (scope, epoch) pair observed by subscribers.
type ScopeChange struct {
	Scope domain.ScopeKey
	Epoch uint64
}

// ScopeController holds the session's active scope. It starts in the
// network-wide view and lives for the whole session. Every transition
// increments the epoch and notifies subscribers synchronously, before any
// fetch for the new scope is dispatched; in-flight fetches tagged with an
// older epoch become inert. Switching scopes leaves cache entries for other
// scopes untouched so back-navigation stays warm.
type ScopeController struct {
	mu      sync.Mutex
	current domain.ScopeKey
	epoch   uint64
	subs    map[int]func(ScopeChange)
	nextID  int
	metrics Metrics
	log     *zap.SugaredLogger
}

// NewScopeController creates a controller in the network view.
func NewScopeController(metrics Metrics, log *zap.SugaredLogger) *ScopeController {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ScopeController{
		current: domain.NetworkScope(),
		subs:    make(map[int]func(ScopeChange)),
		metrics: metrics,
		log:     log,
	}
}

// Current returns the active scope together with its epoch.
func (c *ScopeController) Current() ScopeChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ScopeChange{Scope: c.current, Epoch: c.epoch}
}

// Epoch returns the current epoch. Fetch dispatchers capture it at dispatch
// time and compare on completion.
func (c *ScopeController) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// SwitchToLocation activates the view for a single location. The id is
// validated first; a malformed id fails with ErrInvalidScope and leaves the
// active scope unchanged. Repeating the same id still bumps the epoch.
func (c *ScopeController) SwitchToLocation(id string) (ScopeChange, error) {
	scope, err := domain.NewLocationScope(id)
	if err != nil {
		return ScopeChange{}, err
	}
	return c.transition(scope), nil
}

// SwitchToNetwork activates the network-wide view.
func (c *ScopeController) SwitchToNetwork() ScopeChange {
	return c.transition(domain.NetworkScope())
}

// Subscribe registers a callback for scope transitions. Callbacks run
// synchronously inside the transition, outside the controller lock, so a
// callback may itself trigger another switch; deferred effects must re-read
// the epoch before applying.
func (c *ScopeController) Subscribe(fn func(ScopeChange)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *ScopeController) transition(scope domain.ScopeKey) ScopeChange {
	c.mu.Lock()
	c.current = scope
	c.epoch++
	change := ScopeChange{Scope: scope, Epoch: c.epoch}
	subs := make([]func(ScopeChange), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	c.metrics.ScopeSwitched(string(scope.Kind))
	c.log.Infow("scope switched", "scope", scope.String(), "epoch", change.Epoch)
	for _, fn := range subs {
		fn(change)
	}
	return change
}
