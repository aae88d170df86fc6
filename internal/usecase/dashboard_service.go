package usecase

import (
	"context"

	"github.com/retailpulse/console/internal/domain"
	"go.uber.org/zap"
)

// Resource names used to derive cache keys. Location stats append the range
// so each reporting window gets its own slot.
const (
	ResourceDashboardStats = "dashboard-stats"
	ResourceLocationDetail = "location-detail"
	ResourceLocationStats  = "location-stats"
)

// DashboardService resolves console resources for the currently active
// scope through the synchronization engine. Every read re-reads the active
// scope, so consumers automatically address the right cache slot after a
// scope switch.
type DashboardService struct {
	engine      *Engine
	scopes      *ScopeController
	api         domain.MetricsAPI
	log         *zap.SugaredLogger
	unsubscribe func()
}

// NewDashboardService wires the service and starts warming the stats cache
// on every scope switch. The controller notifies after bumping the epoch,
// so the warm-up fetch is tagged with the new epoch.
func NewDashboardService(engine *Engine, scopes *ScopeController, api domain.MetricsAPI, log *zap.SugaredLogger) *DashboardService {
	s := &DashboardService{
		engine: engine,
		scopes: scopes,
		api:    api,
		log:    log,
	}
	s.unsubscribe = scopes.Subscribe(func(change ScopeChange) {
		s.engine.Get(ResourceDashboardStats, change.Scope, s.statsFetcher(change.Scope))
	})
	return s
}

// Close releases the scope subscription.
func (s *DashboardService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Stats returns the dashboard aggregate entry for the active scope.
func (s *DashboardService) Stats() Entry {
	scope := s.scopes.Current().Scope
	return s.engine.Get(ResourceDashboardStats, scope, s.statsFetcher(scope))
}

// RefreshStats invalidates the active scope's stats entry and dispatches a
// refetch immediately.
func (s *DashboardService) RefreshStats() Entry {
	scope := s.scopes.Current().Scope
	s.engine.Invalidate(ResourceDashboardStats, scope)
	return s.engine.Get(ResourceDashboardStats, scope, s.statsFetcher(scope))
}

// SubscribeStats observes the stats entry for the currently active scope.
// The subscription is bound to that scope's key; callers re-subscribe after
// a scope change to follow the new key.
func (s *DashboardService) SubscribeStats(fn func(Entry)) func() {
	return s.engine.Subscribe(ResourceDashboardStats, s.scopes.Current().Scope, fn)
}

// LocationDetail returns the cached detail entry for one location.
func (s *DashboardService) LocationDetail(id string) (Entry, error) {
	scope, err := domain.NewLocationScope(id)
	if err != nil {
		return Entry{}, err
	}
	return s.engine.Get(ResourceLocationDetail, scope, func(ctx context.Context) (any, error) {
		return s.api.FetchLocationDetail(ctx, id)
	}), nil
}

// LocationStats returns the cached ranged stats entry for one location.
func (s *DashboardService) LocationStats(id string, r domain.StatsRange) (Entry, error) {
	scope, err := domain.NewLocationScope(id)
	if err != nil {
		return Entry{}, err
	}
	resource := ResourceLocationStats + ":" + string(r)
	return s.engine.Get(resource, scope, func(ctx context.Context) (any, error) {
		return s.api.FetchLocationStats(ctx, id, r)
	}), nil
}

func (s *DashboardService) statsFetcher(scope domain.ScopeKey) Fetcher {
	return func(ctx context.Context) (any, error) {
		return s.api.FetchDashboardStats(ctx, scope)
	}
}
