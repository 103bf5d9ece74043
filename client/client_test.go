package client

import (
	"context"
	"testing"
	"time"

	v1 "flagfeed/pkg/api/v1"
)

func TestFlagClientActivationScenario(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshot := []v1.FeatureRecord{
		{ID: "a", ReleaseDate: now.Add(-24 * time.Hour)},
		{ID: "b", ReleaseDate: now.Add(24 * time.Hour)},
	}
	fetcher := &fakeFetcher{results: []fetchResult{{records: snapshot}}}

	cfg, _ := NewConfig("http://localhost:8080")
	cfg.SetUpdateInterval(time.Hour)
	c := New(cfg, WithFetcher(fetcher), WithClock(func() time.Time { return now }))

	sub := c.Subscribe()
	c.Start(context.Background())
	defer c.Stop()

	select {
	case <-sub:
	case <-time.After(time.Second):
		t.Fatal("initial fetch did not replace the snapshot")
	}

	tests := []struct {
		id       string
		expected bool
	}{
		{"a", true},  // released yesterday
		{"b", false}, // releases tomorrow
		{"c", false}, // unknown id
	}
	for _, tt := range tests {
		if got := c.IsFeatureActive(tt.id); got != tt.expected {
			t.Errorf("IsFeatureActive(%q) = %v, want %v", tt.id, got, tt.expected)
		}
	}

	enabled := c.EnabledFeatures()
	if len(enabled) != 1 || enabled[0].ID != "a" {
		t.Errorf("EnabledFeatures() = %v, want [a]", enabled)
	}
	if got := c.Snapshot(); len(got) != 2 {
		t.Errorf("Snapshot() = %v, want both records", got)
	}
}

func TestFlagClientEmptyStore(t *testing.T) {
	cfg, _ := NewConfig("http://localhost:8080")
	c := New(cfg, WithFetcher(&fakeFetcher{}))

	// Never started: queries answer from the empty snapshot.
	if c.IsFeatureActive("anything") {
		t.Error("IsFeatureActive on empty store = true, want false")
	}
	if got := c.EnabledFeatures(); len(got) != 0 {
		t.Errorf("EnabledFeatures on empty store = %v, want empty", got)
	}
}

func TestFlagClientStopIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{results: []fetchResult{{records: nil}}}
	cfg, _ := NewConfig("http://localhost:8080")
	cfg.SetUpdateInterval(time.Hour)
	c := New(cfg, WithFetcher(fetcher))

	c.Start(context.Background())
	c.Stop()
	c.Stop()

	// Queries still work after Stop.
	if c.IsFeatureActive("anything") {
		t.Error("IsFeatureActive after Stop = true, want false")
	}
}
