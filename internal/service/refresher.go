package service

import (
	"context"
	"time"

	"flagfeed/internal/metrics"
	"flagfeed/internal/model"
	v1 "flagfeed/pkg/api/v1"
	"flagfeed/pkg/logger"

	"go.uber.org/zap"
)

// FlagSource is the persistence boundary the refresher reads from.
type FlagSource interface {
	GetAll(ctx context.Context) ([]*model.FeatureFlag, error)
}

// Refresher periodically reloads the flag master data into the snapshot
// cache. Flags are administered out of band, so a DB read on a timer is
// the only change feed the read-only service needs. A failed reload keeps
// the previous snapshot in place.
type Refresher struct {
	source   FlagSource
	cache    *SnapshotCache
	observer metrics.RefreshObserver
	interval time.Duration
}

func NewRefresher(source FlagSource, cache *SnapshotCache, observer metrics.RefreshObserver, interval time.Duration) *Refresher {
	return &Refresher{
		source:   source,
		cache:    cache,
		observer: observer,
		interval: interval,
	}
}

func (r *Refresher) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	logger.Info("flag refresher started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("flag refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	flags, err := r.source.GetAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("failed to reload flags, serving stale snapshot", zap.Error(err))
			r.observer.RecordRefreshError()
		}
		return
	}

	records := make([]v1.FeatureRecord, 0, len(flags))
	for _, f := range flags {
		records = append(records, v1.FeatureRecord{
			ID:                f.FlagID,
			ManuallyActivated: f.ManuallyActivated,
			ReleaseDate:       f.ReleaseDate,
		})
	}

	r.cache.Replace(records, time.Now())
	r.observer.RecordRefresh()
	r.observer.SetFlagsLoaded(len(records))
	logger.Debug("flag snapshot reloaded", zap.Int("flags", len(records)))
}
