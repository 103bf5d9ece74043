package metrics

type RefreshObserver interface {
	RecordRefresh()
	RecordRefreshError()
	SetFlagsLoaded(n int)
	RecordSnapshotServed()
}
