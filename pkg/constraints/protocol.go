package constraints

import "time"

// Shared protocol constants between the SDK and the flag service.
const (
	// HeaderAPIKey authenticates SDK clients on the snapshot endpoint.
	HeaderAPIKey = "X-Flagfeed-Key"

	// SnapshotPath is the read-only endpoint polled by SDK clients.
	SnapshotPath = "/v1/flags/snapshot"
)

// DefaultUpdateInterval is how often a client re-fetches the snapshot
// unless configured otherwise (600000 ms).
const DefaultUpdateInterval = 10 * time.Minute
