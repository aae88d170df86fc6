package domain

import (
	"fmt"
	"regexp"
)

// ScopeKind discriminates the two addressing scopes the console operates in.
type ScopeKind string

const (
	// ScopeNetwork addresses aggregates across the whole location network.
	ScopeNetwork ScopeKind = "network"

	// ScopeLocation addresses aggregates for one franchise location.
	ScopeLocation ScopeKind = "location"
)

// locationIDPattern matches well-formed location identifiers. IDs come from
// the backend catalog and are short slugs or UUID-ish strings; anything else
// is rejected at the boundary rather than silently treated as network-wide.
var locationIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ScopeKey identifies the scope under which a cached resource is addressed.
// Two keys are equal iff they have the same kind and, for location scopes,
// the same location id. The zero value is not a valid scope; use
// NetworkScope or NewLocationScope.
type ScopeKey struct {
	Kind       ScopeKind `json:"kind"`
	LocationID string    `json:"locationId,omitempty"`
}

// NetworkScope returns the network-wide scope.
func NetworkScope() ScopeKey {
	return ScopeKey{Kind: ScopeNetwork}
}

// NewLocationScope returns a scope for a single location. An empty or
// malformed id fails with ErrInvalidScope; it never falls back to the
// network scope.
func NewLocationScope(id string) (ScopeKey, error) {
	if !locationIDPattern.MatchString(id) {
		return ScopeKey{}, fmt.Errorf("%w: location id %q", ErrInvalidScope, id)
	}
	return ScopeKey{Kind: ScopeLocation, LocationID: id}, nil
}

// Equals reports value equality between two scope keys.
func (k ScopeKey) Equals(other ScopeKey) bool {
	return k == other
}

// String renders the scope as a stable key component.
func (k ScopeKey) String() string {
	if k.Kind == ScopeLocation {
		return string(ScopeLocation) + ":" + k.LocationID
	}
	return string(ScopeNetwork)
}

// KeyFor derives the cache key for a (resource, scope) pair. It is a pure
// function of its arguments: equal scopes always address the same slot and
// distinct scopes never collide, because location ids cannot contain '|'
// (enforced by NewLocationScope).
func KeyFor(resource string, scope ScopeKey) string {
	return resource + "|" + scope.String()
}
