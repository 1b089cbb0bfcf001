package cmdlog

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"vecindario/internal/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRunCountsRunsAndErrors(t *testing.T) {
	runs := counterValue(t, metrics.CommandRuns.WithLabelValues("probe"))
	errs := counterValue(t, metrics.CommandErrors.WithLabelValues("probe"))

	if err := Run("probe", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	if err := Run("probe", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	if got := counterValue(t, metrics.CommandRuns.WithLabelValues("probe")) - runs; got != 2 {
		t.Fatalf("runs delta: %v", got)
	}
	if got := counterValue(t, metrics.CommandErrors.WithLabelValues("probe")) - errs; got != 1 {
		t.Fatalf("errors delta: %v", got)
	}
}
