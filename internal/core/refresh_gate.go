package core

// refresh_gate.go serialises data refreshes.
//
// Only one load may run at a time. Manual refreshes use TryAcquire and
// fail fast with ErrRefreshInProgress; the scheduler uses Acquire and
// waits for the running load to finish.

import (
	"context"
	"sync/atomic"
)

// RefreshGate is a single-slot semaphore.
type RefreshGate struct {
	slot   chan struct{}
	active atomic.Bool
}

// NewRefreshGate creates an open gate.
func NewRefreshGate() *RefreshGate {
	return &RefreshGate{slot: make(chan struct{}, 1)}
}

// Acquire blocks until the gate is free or ctx is done.
// The caller MUST call Release after a nil return.
func (g *RefreshGate) Acquire(ctx context.Context) error {
	select {
	case g.slot <- struct{}{}:
		g.active.Store(true)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes the gate without blocking.
// Returns ErrRefreshInProgress if it is held.
func (g *RefreshGate) TryAcquire() error {
	select {
	case g.slot <- struct{}{}:
		g.active.Store(true)
		return nil
	default:
		return ErrRefreshInProgress
	}
}

// Release frees the gate. Must be called exactly once per successful acquire.
func (g *RefreshGate) Release() {
	g.active.Store(false)
	<-g.slot
}

// Active reports whether a refresh currently holds the gate.
func (g *RefreshGate) Active() bool {
	return g.active.Load()
}
