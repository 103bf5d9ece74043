package service

import (
	"slices"
	"sync"
	"time"

	v1 "flagfeed/pkg/api/v1"
)

// SnapshotCache holds the flag set currently served to SDK clients.
// The refresher replaces it wholesale; request handlers only read.
type SnapshotCache struct {
	mu       sync.RWMutex
	records  []v1.FeatureRecord
	loadedAt time.Time
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

func (c *SnapshotCache) Replace(records []v1.FeatureRecord, loadedAt time.Time) {
	snapshot := slices.Clone(records)
	c.mu.Lock()
	c.records = snapshot
	c.loadedAt = loadedAt
	c.mu.Unlock()
}

// Snapshot returns the served flag set and when it was loaded from the
// database. Empty until the first refresh completes.
func (c *SnapshotCache) Snapshot() ([]v1.FeatureRecord, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.records == nil {
		return []v1.FeatureRecord{}, c.loadedAt
	}
	return slices.Clone(c.records), c.loadedAt
}

func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
