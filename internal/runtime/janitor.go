// Package runtime holds long-lived background components that sit outside
// the core services but are wired at process startup.
package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

// Janitor periodically sweeps expired pending handoffs from the store.
// Only backends without native expiry need it; for those that expire keys
// themselves the Cleanup call is a no-op.
type Janitor struct {
	store  driven.HandoffStore
	logger *slog.Logger

	// Internal state
	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	interval time.Duration
}

// JanitorConfig holds configuration for the janitor.
type JanitorConfig struct {
	Store         driven.HandoffStore
	Logger        *slog.Logger
	SweepInterval time.Duration // How often to sweep expired handoffs (default: 1m)
}

// NewJanitor creates a new janitor.
func NewJanitor(cfg JanitorConfig) *Janitor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.SweepInterval
	if interval == 0 {
		interval = time.Minute
	}

	return &Janitor{
		store:    cfg.Store,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the sweep loop.
// It runs until Stop is called or the context is cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = true
	j.stopCh = make(chan struct{})
	j.doneCh = make(chan struct{})
	j.mu.Unlock()

	j.logger.Info("handoff janitor starting", "sweep_interval", j.interval)

	go j.run(ctx)

	return nil
}

// Stop gracefully stops the janitor.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	close(j.stopCh)
	j.mu.Unlock()

	<-j.doneCh

	j.mu.Lock()
	j.running = false
	j.mu.Unlock()

	j.logger.Info("handoff janitor stopped")
}

// run is the main sweep loop.
func (j *Janitor) run(ctx context.Context) {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Sweep immediately on start
	j.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("handoff janitor context cancelled")
			return
		case <-j.stopCh:
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// sweep removes expired handoffs. Failures are logged and retried on the
// next tick; a missed sweep only delays reclamation.
func (j *Janitor) sweep(ctx context.Context) {
	if err := j.store.Cleanup(ctx); err != nil {
		j.logger.Error("failed to sweep expired handoffs", "error", err)
	}
}
