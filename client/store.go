package client

import (
	"slices"
	"sync"

	v1 "flagfeed/pkg/api/v1"
	"flagfeed/pkg/logger"
)

// Store holds the last successfully fetched flag snapshot. All mutation
// funnels through Replace, so readers observe either the old or the new
// snapshot in full, never a mixture.
type Store struct {
	mu      sync.RWMutex
	records []v1.FeatureRecord
	subs    map[chan []v1.FeatureRecord]bool
}

func NewStore() *Store {
	return &Store{
		subs: make(map[chan []v1.FeatureRecord]bool),
	}
}

// Replace swaps in a new snapshot and notifies subscribers. The new
// snapshot fully supersedes the previous one; records are never merged.
func (s *Store) Replace(records []v1.FeatureRecord) {
	snapshot := slices.Clone(records)

	s.mu.Lock()
	s.records = snapshot
	for sub := range s.subs {
		select {
		case sub <- snapshot:
		default:
			logger.Warn("flag subscriber not keeping up, dropping notification")
		}
	}
	s.mu.Unlock()
}

// Current returns a copy of the latest snapshot, empty before the first
// successful fetch.
func (s *Store) Current() []v1.FeatureRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.records == nil {
		return []v1.FeatureRecord{}
	}
	return slices.Clone(s.records)
}

// Subscribe registers for replace notifications. Each Replace delivers the
// new snapshot on the returned channel; deliveries to a full channel are
// dropped rather than blocking the poller.
func (s *Store) Subscribe() chan []v1.FeatureRecord {
	ch := make(chan []v1.FeatureRecord, 8)
	s.mu.Lock()
	s.subs[ch] = true
	s.mu.Unlock()
	return ch
}

func (s *Store) Unsubscribe(ch chan []v1.FeatureRecord) {
	s.mu.Lock()
	if s.subs[ch] {
		delete(s.subs, ch)
		close(ch)
	}
	s.mu.Unlock()
}
