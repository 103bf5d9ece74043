package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"flagfeed/internal/model"
)

type mockSource struct {
	flags []*model.FeatureFlag
	err   error
	calls int
}

func (m *mockSource) GetAll(ctx context.Context) ([]*model.FeatureFlag, error) {
	m.calls++
	return m.flags, m.err
}

type mockObserver struct {
	refreshes int
	errors    int
	loaded    int
}

func (m *mockObserver) RecordRefresh()        { m.refreshes++ }
func (m *mockObserver) RecordRefreshError()   { m.errors++ }
func (m *mockObserver) SetFlagsLoaded(n int)  { m.loaded = n }
func (m *mockObserver) RecordSnapshotServed() {}

func TestRefresherLoadsFlags(t *testing.T) {
	release := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	source := &mockSource{flags: []*model.FeatureFlag{
		{FlagID: "checkout-v2", ManuallyActivated: true, ReleaseDate: release},
		{FlagID: "dark-mode", ReleaseDate: release},
	}}
	cache := NewSnapshotCache()
	obs := &mockObserver{}
	r := NewRefresher(source, cache, obs, time.Hour)

	r.refresh(context.Background())

	records, loadedAt := cache.Snapshot()
	if len(records) != 2 {
		t.Fatalf("cache holds %d records, want 2", len(records))
	}
	if records[0].ID != "checkout-v2" || !records[0].ManuallyActivated || !records[0].ReleaseDate.Equal(release) {
		t.Errorf("mapped record = %+v", records[0])
	}
	if loadedAt.IsZero() {
		t.Error("loadedAt not set after refresh")
	}
	if obs.refreshes != 1 || obs.loaded != 2 {
		t.Errorf("observer refreshes=%d loaded=%d, want 1/2", obs.refreshes, obs.loaded)
	}
}

func TestRefresherKeepsSnapshotOnError(t *testing.T) {
	source := &mockSource{flags: []*model.FeatureFlag{{FlagID: "a"}}}
	cache := NewSnapshotCache()
	obs := &mockObserver{}
	r := NewRefresher(source, cache, obs, time.Hour)

	r.refresh(context.Background())

	source.err = errors.New("mysql gone away")
	r.refresh(context.Background())

	records, _ := cache.Snapshot()
	if len(records) != 1 || records[0].ID != "a" {
		t.Errorf("snapshot after failed refresh = %v, want [a] unchanged", records)
	}
	if obs.errors != 1 {
		t.Errorf("observer errors = %d, want 1", obs.errors)
	}
}

func TestRefresherRunStopsOnCancel(t *testing.T) {
	source := &mockSource{}
	r := NewRefresher(source, NewSnapshotCache(), &mockObserver{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
	if source.calls < 1 {
		t.Error("Run did not refresh immediately on start")
	}
}
