package v1

import "time"

// FeatureRecord is one feature flag as served by the snapshot endpoint.
// A record is active when ManuallyActivated is set, or once ReleaseDate
// is strictly in the past.
type FeatureRecord struct {
	ID                string    `json:"id"`
	ManuallyActivated bool      `json:"manually_activated"`
	ReleaseDate       time.Time `json:"release_date"`
}

// SnapshotResponse is the body of GET /v1/flags/snapshot. Data always
// carries the complete flag set; partial snapshots are never served.
type SnapshotResponse struct {
	Data      []FeatureRecord `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}
