// Package poller collects usage snapshots from a provider and persists them.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/denysvitali/plan-usage/internal/provider"
	"github.com/denysvitali/plan-usage/internal/snapshot"
	"github.com/denysvitali/plan-usage/internal/usage"
)

// Poller fetches from one provider and writes each result to the store
type Poller struct {
	provider provider.Provider
	store    *snapshot.Store
	interval time.Duration
}

// New creates a poller; interval is only used by Daemon
func New(p provider.Provider, store *snapshot.Store, interval time.Duration) *Poller {
	return &Poller{provider: p, store: store, interval: interval}
}

// Collect runs one fetch and writes the snapshot
func (p *Poller) Collect(ctx context.Context) (*usage.Data, error) {
	data, err := p.provider.GetUsage(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.store.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Usage data saved", "provider", p.provider.ID(), "path", p.store.Path())
	for _, line := range usage.Summary(data) {
		slog.InfoContext(ctx, line)
	}

	return data, nil
}

// Daemon collects immediately and then on every interval tick until ctx is done.
// Failed iterations are logged and do not stop the loop.
func (p *Poller) Daemon(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("invalid interval %s", p.interval)
	}

	slog.InfoContext(ctx, "Starting daemon", "provider", p.provider.Name(), "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Daemon stopped")
			return nil
		case <-ticker.C:
			p.collectLogged(ctx)
		}
	}
}

func (p *Poller) collectLogged(ctx context.Context) {
	if _, err := p.Collect(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.ErrorContext(ctx, "Failed to collect usage", "error", err)
		return
	}
	slog.InfoContext(ctx, "Next run scheduled", "in", p.interval)
}
