package signals

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"vecindario/internal/config"
	"vecindario/internal/logging"
	"vecindario/internal/metrics"
	"vecindario/internal/model"
)

// BreakerProvider wraps a Provider with a circuit breaker. While the circuit is
// open every Fetch fails fast, which a recommendation run degrades to zero values.
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker[model.NeighborhoodSignals]
	name string
}

// NewBreakerProvider opens the circuit after cfg.MaxFailures consecutive failures
// and probes again after cfg.OpenFor.
func NewBreakerProvider(name string, next Provider, cfg config.BreakerConfig) *BreakerProvider {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openFor := cfg.OpenFor
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	metrics.BreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[model.NeighborhoodSignals](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// a missing neighborhood or an abandoned run says nothing about the upstream's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn("breaker_state_change", map[string]any{"name": name, "from": from.String(), "to": to.String()})
			metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	return &BreakerProvider{next: next, cb: cb, name: name}
}

func (b *BreakerProvider) Fetch(ctx context.Context, n model.Neighborhood) (model.NeighborhoodSignals, error) {
	return b.cb.Execute(func() (model.NeighborhoodSignals, error) {
		return b.next.Fetch(ctx, n)
	})
}

// State reports the current circuit state.
func (b *BreakerProvider) State() gobreaker.State { return b.cb.State() }

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
