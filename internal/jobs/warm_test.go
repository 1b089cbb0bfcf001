package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"vecindario/internal/model"
	"vecindario/internal/signals"
	"vecindario/internal/store/sqlitestore"
)

func TestWarmOnceFillsCacheAndSkipsFailures(t *testing.T) {
	db, err := sqlitestore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	if err := db.UpsertNeighborhoods(ctx, []model.Neighborhood{{Name: "Ruzafa"}, {Name: "Broken"}}); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().UTC().Add(-48 * time.Hour)
	if err := db.PutSignals(ctx, "Gone", model.NeighborhoodSignals{}, stale); err != nil {
		t.Fatal(err)
	}

	upstream := signals.ProviderFunc(func(ctx context.Context, n model.Neighborhood) (model.NeighborhoodSignals, error) {
		if n.Name == "Broken" {
			return model.NeighborhoodSignals{}, errors.New("upstream 503")
		}
		return model.NeighborhoodSignals{Values: model.CategoryValues{Security: 77}}, nil
	})
	res, err := WarmOnce(ctx, db, upstream, 24*time.Hour)
	if err != nil {
		t.Fatalf("warm: %v", err)
	}
	if res.Refreshed != 1 || res.Failed != 1 || res.Purged != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	sig, _, ok, err := db.GetSignals(ctx, "Ruzafa")
	if err != nil || !ok || sig.Values.Security != 77 {
		t.Fatalf("cache not filled: %v %v %+v", ok, err, sig)
	}
}

func TestWarmLoopStopsOnCancel(t *testing.T) {
	db, err := sqlitestore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx, cancel := context.WithCancel(context.Background())
	upstream := signals.NewStaticProvider(nil)
	done := make(chan error, 1)
	go func() { done <- WarmLoop(ctx, db, upstream, 0, time.Hour) }()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop")
	}
}
