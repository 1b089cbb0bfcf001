// Package signals adapts the collaborators that supply normalized per-category
// values for a neighborhood.
package signals

import (
	"context"
	"errors"

	"vecindario/internal/model"
)

// ErrNotFound is returned when a provider has no signals for a neighborhood.
var ErrNotFound = errors.New("signals: neighborhood not found")

// Provider fetches the normalized signals of one neighborhood.
type Provider interface {
	Fetch(ctx context.Context, n model.Neighborhood) (model.NeighborhoodSignals, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, n model.Neighborhood) (model.NeighborhoodSignals, error)

func (f ProviderFunc) Fetch(ctx context.Context, n model.Neighborhood) (model.NeighborhoodSignals, error) {
	return f(ctx, n)
}
