package client

import (
	"context"
	"sync/atomic"
	"time"

	"flagfeed/pkg/logger"

	"go.uber.org/zap"
)

// Poller drives the refresh loop: one immediate fetch on start, then one
// per configured interval. Fetch failures are absorbed — the store keeps
// the previous snapshot and the next tick runs on schedule.
type Poller struct {
	cfg      *Config
	store    *Store
	fetcher  Fetcher
	inFlight atomic.Bool
}

func NewPoller(cfg *Config, store *Store, fetcher Fetcher) *Poller {
	return &Poller{
		cfg:     cfg,
		store:   store,
		fetcher: fetcher,
	}
}

// Run blocks until ctx is cancelled. Interval changes made through the
// config take effect at the next tick boundary.
func (p *Poller) Run(ctx context.Context) {
	p.tick(ctx)

	interval := p.cfg.UpdateInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("flag poller started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("flag poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
			if next := p.cfg.UpdateInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
				logger.Info("flag poll interval updated", zap.Duration("interval", interval))
			}
		}
	}
}

// tick performs one fetch-and-replace. A tick that fires while the
// previous fetch is still in flight is skipped, so replaces stay ordered.
func (p *Poller) tick(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		logger.Warn("previous fetch still in flight, skipping tick")
		return
	}
	defer p.inFlight.Store(false)

	records, err := p.fetcher.FetchEnabledFeatures(ctx, p.cfg.Host(), p.cfg.Headers())
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("flag fetch failed, keeping previous snapshot", zap.Error(err))
		}
		return
	}
	p.store.Replace(records)
	logger.Debug("flag snapshot replaced", zap.Int("records", len(records)))
}
