package domain

import "context"

// AuthState is the caller's authentication state as read from the session
// surface. Principal is set only when Authenticated is true.
type AuthState struct {
	Authenticated bool
	Principal     string
}

// MetricsAPI is the aggregates backend the console fetches scoped KPI data
// from. Implementations return ErrNotFound for unknown locations and wrap
// transport problems in ErrFetchFailure.
type MetricsAPI interface {
	FetchDashboardStats(ctx context.Context, scope ScopeKey) (*DashboardStats, error)
	FetchLocationDetail(ctx context.Context, id string) (*LocationRecord, error)
	FetchLocationStats(ctx context.Context, id string, r StatsRange) (*StatsSummary, error)
}

// CatalogAPI looks up product records by their public lookup key.
// Absent records surface as ErrNotFound.
type CatalogAPI interface {
	FetchProductByLookupKey(ctx context.Context, key string) (*ProductRecord, error)
}

// AuthStateStore reads the caller's auth state from an opaque session token.
// A corrupt or unverifiable token fails with ErrAuthStateUnavailable; callers
// treat that as unauthenticated (fail closed).
type AuthStateStore interface {
	State(ctx context.Context, token string) (AuthState, error)
}
