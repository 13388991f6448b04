// Package routing resolves location pairs to driving distance and duration.
// The planning core depends only on the Provider interface; the concrete
// OpenRouteService client and the in-memory test fixture both satisfy it.
package routing

import (
	"context"
	"fmt"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

// Provider returns the driving route between two location descriptors.
// Implementations must collapse every failure mode (transport error, empty
// result, unresolvable location) into an error wrapping
// domain.ErrRouteUnavailable so callers have a single condition to test.
type Provider interface {
	RouteBetween(ctx context.Context, origin, destination string) (domain.RouteLeg, error)
}

// FixturePair is one origin/destination route known to a Fixture.
type FixturePair struct {
	From, To string
	Miles    float64
	Hours    float64
}

// Fixture is a deterministic in-memory Provider for tests. Lookups for pairs
// it does not know fail with domain.ErrRouteUnavailable, which also makes it
// useful for exercising rollback paths.
type Fixture struct {
	m map[string]domain.RouteLeg
}

// NewFixture builds a Fixture from the given pairs.
func NewFixture(pairs []FixturePair) *Fixture {
	m := make(map[string]domain.RouteLeg, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = domain.RouteLeg{DistanceMiles: p.Miles, DurationHours: p.Hours}
	}
	return &Fixture{m: m}
}

// RouteBetween returns the fixture leg for the pair, or ErrRouteUnavailable.
func (f *Fixture) RouteBetween(_ context.Context, origin, destination string) (domain.RouteLeg, error) {
	leg, ok := f.m[origin+"|"+destination]
	if !ok {
		return domain.RouteLeg{}, fmt.Errorf("%w: no fixture for %q -> %q", domain.ErrRouteUnavailable, origin, destination)
	}
	return leg, nil
}
