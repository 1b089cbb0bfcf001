package jobs

import (
	"context"
	"time"

	"vecindario/internal/logging"
	"vecindario/internal/metrics"
	"vecindario/internal/model"
	"vecindario/internal/signals"
)

// Store is the part of the neighborhood store the warm job needs.
type Store interface {
	signals.Cache
	ListNeighborhoods(ctx context.Context) ([]model.Neighborhood, error)
	PurgeSignalsBefore(ctx context.Context, t time.Time) (int64, error)
}

// WarmResult summarizes one warm pass.
type WarmResult struct {
	Refreshed int
	Failed    int
	Purged    int64
}

// WarmOnce refreshes the cached signals of every stored neighborhood from upstream
// and drops entries older than maxAge. Single fetch failures are logged and skipped.
func WarmOnce(ctx context.Context, db Store, upstream signals.Provider, maxAge time.Duration) (WarmResult, error) {
	var res WarmResult
	list, err := db.ListNeighborhoods(ctx)
	if err != nil {
		return res, err
	}
	for _, n := range list {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		sig, err := upstream.Fetch(ctx, n)
		if err != nil {
			res.Failed++
			metrics.IncSignalFailure("warm")
			logging.Warn("warm_fetch_failed", map[string]any{"neighborhood": n.Name, "error": err.Error()})
			continue
		}
		if err := db.PutSignals(ctx, n.Name, sig, time.Now().UTC()); err != nil {
			return res, err
		}
		res.Refreshed++
	}
	if maxAge > 0 {
		purged, err := db.PurgeSignalsBefore(ctx, time.Now().UTC().Add(-maxAge))
		if err != nil {
			return res, err
		}
		res.Purged = purged
	}
	logging.Info("warm_once", map[string]any{"refreshed": res.Refreshed, "failed": res.Failed, "purged": res.Purged})
	return res, nil
}

// WarmLoop runs WarmOnce on a ticker until ctx is cancelled.
func WarmLoop(ctx context.Context, db Store, upstream signals.Provider, maxAge, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	// run immediately
	if _, err := WarmOnce(ctx, db, upstream, maxAge); err != nil {
		logging.Error("warm_once_error", map[string]any{"error": err.Error()})
	}
	for {
		select {
		case <-ctx.Done():
			logging.Info("warm_loop_stop", nil)
			return ctx.Err()
		case <-t.C:
			if _, err := WarmOnce(ctx, db, upstream, maxAge); err != nil {
				logging.Error("warm_once_error", map[string]any{"error": err.Error()})
			}
		}
	}
}
