package metrics

import (
	"testing"
)

func TestPrometheusObserver(t *testing.T) {
	obs := NewPrometheusObserver()

	// Just call methods to ensure no panic
	obs.RecordRefresh()
	obs.RecordRefreshError()
	obs.SetFlagsLoaded(42)
	obs.RecordSnapshotServed()
}
