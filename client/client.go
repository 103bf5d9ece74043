package client

import (
	"context"
	"time"

	v1 "flagfeed/pkg/api/v1"
)

// FlagClient is the query surface consumed by presentation code. It owns
// the store and the poller; evaluation never returns an error, the worst
// case under fetch failures is stale data.
type FlagClient struct {
	cfg    *Config
	store  *Store
	poller *Poller
	now    func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*FlagClient)

// WithFetcher replaces the default HTTP fetcher, e.g. with a fake in tests.
func WithFetcher(f Fetcher) Option {
	return func(c *FlagClient) {
		c.poller = NewPoller(c.cfg, c.store, f)
	}
}

// WithClock replaces the wall clock used for activation decisions.
func WithClock(now func() time.Time) Option {
	return func(c *FlagClient) {
		c.now = now
	}
}

func New(cfg *Config, opts ...Option) *FlagClient {
	store := NewStore()
	c := &FlagClient{
		cfg:    cfg,
		store:  store,
		poller: NewPoller(cfg, store, NewHTTPFetcher()),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the poll loop. The first fetch fires immediately; a
// failure there is absorbed like any other tick and queries serve the
// empty snapshot until a fetch succeeds.
func (c *FlagClient) Start(ctx context.Context) {
	if c.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		c.poller.Run(runCtx)
	}()
}

// Stop cancels the poll loop and waits for it to exit. The last snapshot
// stays queryable.
func (c *FlagClient) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
}

// IsFeatureActive reports whether the feature is active right now.
// Unknown IDs resolve to false.
func (c *FlagClient) IsFeatureActive(id string) bool {
	return EvaluateSnapshot(c.store.Current(), id, c.now()) == ActivationActive
}

// EnabledFeatures returns the records of the current snapshot that are
// active as of call time.
func (c *FlagClient) EnabledFeatures() []v1.FeatureRecord {
	now := c.now()
	records := c.store.Current()
	enabled := make([]v1.FeatureRecord, 0, len(records))
	for _, rec := range records {
		if IsActive(rec, now) {
			enabled = append(enabled, rec)
		}
	}
	return enabled
}

// Snapshot returns a copy of the current snapshot, evaluated or not.
func (c *FlagClient) Snapshot() []v1.FeatureRecord {
	return c.store.Current()
}

// Subscribe delivers every snapshot replacement. Callers must drain the
// channel and release it with Unsubscribe.
func (c *FlagClient) Subscribe() chan []v1.FeatureRecord {
	return c.store.Subscribe()
}

func (c *FlagClient) Unsubscribe(ch chan []v1.FeatureRecord) {
	c.store.Unsubscribe(ch)
}
