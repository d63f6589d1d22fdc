package core

// scheduler.go keeps the entity store fresh in the background.
//
// The scheduler is long-running and context-aware for graceful shutdown.
// A failed refresh is logged and the previous store stays in effect; it
// never stops the loop.

import (
	"context"
	"log/slog"
	"time"
)

// StartRefreshScheduler reloads the feeds every interval until ctx is
// cancelled. A non-positive interval returns immediately.
func (s *Service) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		slog.Info("refresh scheduler disabled")
		return
	}

	slog.Info("refresh scheduler started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runScheduledRefresh(ctx)
		}
	}
}

// runScheduledRefresh performs one refresh, waiting for any manual
// refresh already in flight.
func (s *Service) runScheduledRefresh(ctx context.Context) {
	if err := s.gate.Acquire(ctx); err != nil {
		return
	}
	defer s.gate.Release()

	start := time.Now()
	if _, err := s.load(ctx); err != nil {
		slog.Error("scheduled refresh failed", "error", err)
		return
	}
	slog.Debug("scheduled refresh completed", "duration_ms", time.Since(start).Milliseconds())
}
