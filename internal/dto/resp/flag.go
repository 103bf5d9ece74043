package resp

import (
	v1 "flagfeed/pkg/api/v1"
)

// SnapshotResponse is the shared wire type; server and SDK must agree on
// the shape byte for byte.
type SnapshotResponse = v1.SnapshotResponse

type HealthResponse struct {
	Status string `json:"status"`
}
