package signals

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"vecindario/internal/config"
	"vecindario/internal/model"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	boom := errors.New("upstream down")
	p := NewBreakerProvider("test-open", ProviderFunc(func(ctx context.Context, n model.Neighborhood) (model.NeighborhoodSignals, error) {
		calls++
		return model.NeighborhoodSignals{}, boom
	}), config.BreakerConfig{MaxFailures: 2, OpenFor: time.Minute})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := p.Fetch(ctx, model.Neighborhood{Name: "x"}); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected upstream error, got %v", i, err)
		}
	}
	if p.State() != gobreaker.StateOpen {
		t.Fatalf("state = %s, want open", p.State())
	}
	if _, err := p.Fetch(ctx, model.Neighborhood{Name: "x"}); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open-state error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("open circuit should not reach upstream, calls=%d", calls)
	}
}

func TestBreakerIgnoresNotFound(t *testing.T) {
	p := NewBreakerProvider("test-notfound", ProviderFunc(func(ctx context.Context, n model.Neighborhood) (model.NeighborhoodSignals, error) {
		return model.NeighborhoodSignals{}, ErrNotFound
	}), config.BreakerConfig{MaxFailures: 1, OpenFor: time.Minute})

	for i := 0; i < 3; i++ {
		_, _ = p.Fetch(context.Background(), model.Neighborhood{Name: "x"})
	}
	if p.State() != gobreaker.StateClosed {
		t.Fatalf("not-found answers must not trip the breaker")
	}
}
