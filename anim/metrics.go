package anim

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports tick timings to Prometheus.
type Metrics struct {
	ticks          prometheus.Counter
	tickDuration   prometheus.Histogram
	systemDuration *prometheus.SummaryVec
}

// NewMetrics creates the driver collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vrscene_ticks_total",
			Help: "Number of ticks executed by the animation driver",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vrscene_tick_duration_seconds",
			Help:    "Time spent in one tick, from clock sample to render submission",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		systemDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       "vrscene_system_duration_seconds",
			Help:       "Time spent in each system during a tick",
			Objectives: map[float64]float64{0.5: 0.05, 0.99: 0.001},
		}, []string{"system"}),
	}
	for _, c := range []prometheus.Collector{m.ticks, m.tickDuration, m.systemDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
