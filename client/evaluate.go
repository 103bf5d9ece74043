package client

import (
	"time"

	v1 "flagfeed/pkg/api/v1"
)

// Activation is the outcome of evaluating one feature ID against a
// snapshot. Unknown means no record matched; the query boundary treats
// it the same as Inactive.
type Activation int

const (
	ActivationUnknown Activation = iota
	ActivationInactive
	ActivationActive
)

// IsActive reports whether rec is active at the given instant: manual
// activation always wins, otherwise the release date must be strictly
// before now. A release date equal to now is not yet active.
func IsActive(rec v1.FeatureRecord, now time.Time) bool {
	return rec.ManuallyActivated || rec.ReleaseDate.Before(now)
}

// EvaluateSnapshot finds the first record with the given ID and evaluates
// it. Lookup misses are not errors.
func EvaluateSnapshot(records []v1.FeatureRecord, id string, now time.Time) Activation {
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		if IsActive(rec, now) {
			return ActivationActive
		}
		return ActivationInactive
	}
	return ActivationUnknown
}
