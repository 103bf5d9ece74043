package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type prometheusObserver struct {
	refreshCounter      prometheus.Counter
	refreshErrorCounter prometheus.Counter
	flagsLoadedGauge    prometheus.Gauge
	snapshotCounter     prometheus.Counter
}

var (
	refreshCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flagfeed_refresh_total",
		Help: "Total number of successful flag cache reloads",
	})
	refreshErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flagfeed_refresh_errors_total",
		Help: "Total number of failed flag cache reloads",
	})
	flagsLoadedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flagfeed_flags_loaded",
		Help: "Number of feature flags in the served snapshot",
	})
	snapshotCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flagfeed_snapshot_requests_total",
		Help: "Total number of snapshot requests served",
	})
)

func NewPrometheusObserver() RefreshObserver {
	return &prometheusObserver{
		refreshCounter:      refreshCounter,
		refreshErrorCounter: refreshErrorCounter,
		flagsLoadedGauge:    flagsLoadedGauge,
		snapshotCounter:     snapshotCounter,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (p *prometheusObserver) RecordRefresh() {
	p.refreshCounter.Inc()
}

func (p *prometheusObserver) RecordRefreshError() {
	p.refreshErrorCounter.Inc()
}

func (p *prometheusObserver) SetFlagsLoaded(n int) {
	p.flagsLoadedGauge.Set(float64(n))
}

func (p *prometheusObserver) RecordSnapshotServed() {
	p.snapshotCounter.Inc()
}
