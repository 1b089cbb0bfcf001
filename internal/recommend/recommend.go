// Package recommend ranks neighborhoods for a user profile.
//
// A run derives the weight vector once, fetches every neighborhood's signals
// concurrently, scores and perturbs each one, applies the budget filter and sorts.
// Fetch failures for a single neighborhood degrade to zero-valued signals; only
// failures of the run as a whole are returned to the caller.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"vecindario/internal/logging"
	"vecindario/internal/metrics"
	"vecindario/internal/model"
	"vecindario/internal/signals"
	"vecindario/internal/weights"
)

// ErrNoProvider is returned when a Recommender has no signals provider.
var ErrNoProvider = errors.New("recommend: no signals provider")

const defaultConcurrency = 8

// Options tunes a Recommender. Zero values pick defaults.
type Options struct {
	// Max concurrent signal fetches per run
	Concurrency int
	Now         func() time.Time
	NewRunID    func() string
}

// Recommender runs recommendations against one signals provider.
type Recommender struct {
	provider    signals.Provider
	concurrency int
	now         func() time.Time
	newRunID    func() string
}

func New(provider signals.Provider, opts Options) *Recommender {
	r := &Recommender{
		provider:    provider,
		concurrency: opts.Concurrency,
		now:         opts.Now,
		newRunID:    opts.NewRunID,
	}
	if r.concurrency <= 0 {
		r.concurrency = defaultConcurrency
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newRunID == nil {
		r.newRunID = uuid.NewString
	}
	return r
}

// Recommend ranks neighborhoods for profile. The tie-break seed comes from the wall
// clock, so two runs may order exact ties differently; the seed is reported in the
// run metadata and RecommendWithSeed replays it.
func (r *Recommender) Recommend(ctx context.Context, profile model.UserProfile, neighborhoods []model.Neighborhood) (*model.RecommendationResponse, error) {
	return r.RecommendWithSeed(ctx, profile, neighborhoods, r.now().UnixMilli())
}

// RecommendWithSeed is Recommend with an explicit tie-break seed.
func (r *Recommender) RecommendWithSeed(ctx context.Context, profile model.UserProfile, neighborhoods []model.Neighborhood, seed int64) (*model.RecommendationResponse, error) {
	start := time.Now()
	metrics.RecommendRuns.Inc()
	defer metrics.ObserveRecommendDuration(start)

	meta := model.RunMetadata{
		RunID:              r.newRunID(),
		Timestamp:          r.now().UTC(),
		Seed:               seed,
		TotalNeighborhoods: len(neighborhoods),
	}
	resp, fallbacks, err := r.run(ctx, profile, neighborhoods, meta)
	if err != nil {
		metrics.RecommendErrors.Inc()
		logging.Error("recommend_run_failed", map[string]any{"run_id": meta.RunID, "error": err.Error()})
		return nil, err
	}
	logging.Info("recommend_run", map[string]any{
		"run_id":        meta.RunID,
		"seed":          seed,
		"neighborhoods": len(neighborhoods),
		"returned":      len(resp.Recommendations),
		"fallbacks":     fallbacks,
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return resp, nil
}

func (r *Recommender) run(ctx context.Context, profile model.UserProfile, neighborhoods []model.Neighborhood, meta model.RunMetadata) (*model.RecommendationResponse, int64, error) {
	if r.provider == nil {
		return nil, 0, ErrNoProvider
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	w := weights.Derive(profile)
	scored := make([]model.ScoredNeighborhood, len(neighborhoods))
	var fallbacks atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, n := range neighborhoods {
		i, n := i, n
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sig, err := r.provider.Fetch(gctx, n)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				fallbacks.Add(1)
				reason := failureReason(err)
				metrics.IncSignalFailure(reason)
				logging.Warn("signals_fetch_failed", map[string]any{
					"run_id":       meta.RunID,
					"neighborhood": n.Name,
					"reason":       reason,
					"error":        err.Error(),
				})
				sig = model.NeighborhoodSignals{}
			}
			scored[i] = scoreOne(n.Name, sig, w, meta.Seed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fallbacks.Load(), fmt.Errorf("recommend run %s: %w", meta.RunID, err)
	}

	out := FilterByBudget(scored, profile.Budget)
	SortByFinalScore(out)
	return &model.RecommendationResponse{
		Profile:         profile,
		Weights:         w,
		Recommendations: out,
		Metadata:        meta,
	}, fallbacks.Load(), nil
}

func scoreOne(name string, sig model.NeighborhoodSignals, w model.WeightVector, seed int64) model.ScoredNeighborhood {
	base := model.Score(sig.Values, sig.Extras, w)
	noise := model.TieBreak(name, seed)
	return model.ScoredNeighborhood{
		Name:            name,
		BaseScore:       base,
		AppliedNoise:    noise,
		FinalScore:      base + noise,
		CategoryValues:  sig.Values,
		LifestyleExtras: sig.Extras,
	}
}

// SortByFinalScore orders by final score descending; equal scores fall back to
// name so the order is total.
func SortByFinalScore(s []model.ScoredNeighborhood) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].FinalScore != s[j].FinalScore {
			return s[i].FinalScore > s[j].FinalScore
		}
		return s[i].Name < s[j].Name
	})
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, signals.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	default:
		return "error"
	}
}
