package signals

import (
	"context"
	"time"

	"vecindario/internal/logging"
	"vecindario/internal/metrics"
	"vecindario/internal/model"
)

// Cache stores fetched signals with their fetch time.
type Cache interface {
	GetSignals(ctx context.Context, name string) (model.NeighborhoodSignals, time.Time, bool, error)
	PutSignals(ctx context.Context, name string, sig model.NeighborhoodSignals, fetchedAt time.Time) error
}

// CachingProvider is a read-through cache in front of another Provider.
// Entries older than ttl are refetched; cache errors fall through to the upstream.
type CachingProvider struct {
	next  Provider
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewCachingProvider(next Provider, cache Cache, ttl time.Duration) *CachingProvider {
	return &CachingProvider{next: next, cache: cache, ttl: ttl, now: time.Now}
}

func (c *CachingProvider) Fetch(ctx context.Context, n model.Neighborhood) (model.NeighborhoodSignals, error) {
	now := c.now().UTC()
	sig, at, ok, err := c.cache.GetSignals(ctx, n.Name)
	switch {
	case err != nil:
		logging.Warn("signals_cache_read_failed", map[string]any{"neighborhood": n.Name, "error": err.Error()})
		metrics.SignalCache.WithLabelValues("error").Inc()
	case ok && (c.ttl <= 0 || now.Sub(at) < c.ttl):
		metrics.SignalCache.WithLabelValues("hit").Inc()
		return sig, nil
	case ok:
		metrics.SignalCache.WithLabelValues("stale").Inc()
	default:
		metrics.SignalCache.WithLabelValues("miss").Inc()
	}

	sig, err = c.next.Fetch(ctx, n)
	if err != nil {
		return sig, err
	}
	if err := c.cache.PutSignals(ctx, n.Name, sig, now); err != nil {
		logging.Warn("signals_cache_write_failed", map[string]any{"neighborhood": n.Name, "error": err.Error()})
	}
	return sig, nil
}
