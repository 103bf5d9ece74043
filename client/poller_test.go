package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	v1 "flagfeed/pkg/api/v1"
)

type fakeFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
	started chan struct{} // closed on first call when set
	release chan struct{} // blocks calls until closed when set
}

type fetchResult struct {
	records []v1.FeatureRecord
	err     error
}

func (f *fakeFetcher) FetchEnabledFeatures(ctx context.Context, host string, headers map[string]string) ([]v1.FeatureRecord, error) {
	f.mu.Lock()
	call := f.calls
	f.calls++
	started := f.started
	f.started = nil
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if f.release != nil {
		<-f.release
	}

	if call >= len(f.results) {
		return nil, errors.New("unexpected fetch")
	}
	res := f.results[call]
	return res.records, res.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestPollerKeepsSnapshotOnFailure(t *testing.T) {
	snap := []v1.FeatureRecord{{ID: "a"}}
	fetcher := &fakeFetcher{results: []fetchResult{
		{records: snap},
		{err: errors.New("connection refused")},
	}}

	cfg, _ := NewConfig("http://localhost:8080")
	store := NewStore()
	p := NewPoller(cfg, store, fetcher)

	p.tick(context.Background())
	if got := store.Current(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("snapshot after tick 1 = %v, want [a]", got)
	}

	// Tick 2 fails; the tick-1 snapshot stays authoritative.
	p.tick(context.Background())
	if got := store.Current(); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("snapshot after failed tick 2 = %v, want [a] unchanged", got)
	}
}

func TestPollerSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetcher := &fakeFetcher{
		results: []fetchResult{{records: nil}},
		started: started,
		release: release,
	}

	cfg, _ := NewConfig("http://localhost:8080")
	p := NewPoller(cfg, NewStore(), fetcher)

	go p.tick(context.Background())
	<-started

	// Fires while the first fetch is in flight; must be skipped.
	p.tick(context.Background())
	if got := fetcher.callCount(); got != 1 {
		t.Errorf("overlapping tick reached the fetcher, calls = %d, want 1", got)
	}
	close(release)
}

// tickSignal reports every fetch without ever running out of canned
// results.
type tickSignal struct {
	ch chan struct{}
}

func (f *tickSignal) FetchEnabledFeatures(ctx context.Context, host string, headers map[string]string) ([]v1.FeatureRecord, error) {
	select {
	case f.ch <- struct{}{}:
	default:
	}
	return nil, nil
}

// An interval change must not reschedule the running ticker immediately:
// the current period finishes at the old cadence, then the new interval
// takes over.
func TestPollerAppliesIntervalChangeAtTickBoundary(t *testing.T) {
	fetcher := &tickSignal{ch: make(chan struct{}, 8)}
	cfg, _ := NewConfig("http://localhost:8080")
	cfg.SetUpdateInterval(50 * time.Millisecond)
	p := NewPoller(cfg, NewStore(), fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	waitFetch := func(msg string) {
		select {
		case <-fetcher.ch:
		case <-time.After(2 * time.Second):
			t.Fatal(msg)
		}
	}

	waitFetch("no immediate fetch on start")

	// Widen the interval while the 50ms ticker is mid-period. The pending
	// tick still fires at the old cadence; if the change applied
	// immediately, nothing would fire for an hour.
	cfg.SetUpdateInterval(time.Hour)
	waitFetch("tick at the old cadence did not fire after the interval change")

	// Drain ticks already in flight, then require silence: the hour-long
	// interval is in effect once a tick observes the change.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-fetcher.ch:
		case <-time.After(300 * time.Millisecond):
			return
		case <-deadline:
			t.Fatal("interval change never took effect")
		}
	}
}

func TestPollerRunFetchesImmediatelyAndStops(t *testing.T) {
	started := make(chan struct{})
	fetcher := &fakeFetcher{
		results: []fetchResult{{records: []v1.FeatureRecord{{ID: "a"}}}},
		started: started,
	}

	cfg, _ := NewConfig("http://localhost:8080")
	cfg.SetUpdateInterval(time.Hour)
	store := NewStore()
	p := NewPoller(cfg, store, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("Run did not fetch immediately on start")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}
