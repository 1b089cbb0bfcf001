// Package cmdlog wraps CLI commands with run metrics and a completion log line.
package cmdlog

import (
	"time"

	"vecindario/internal/logging"
	"vecindario/internal/metrics"
)

func Run(cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	start := time.Now()
	err := f()
	took := time.Since(start).Milliseconds()
	if err != nil {
		metrics.IncCommandError(cmd)
		logging.Error(cmd+"_error", map[string]any{"error": err.Error(), "took_ms": took})
	} else {
		logging.Info(cmd+"_ok", map[string]any{"took_ms": took})
	}
	return err
}
