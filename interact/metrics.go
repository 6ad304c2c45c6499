package interact

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the interaction collectors.
type Metrics struct {
	buttonFires   *prometheus.CounterVec
	sliderChanges *prometheus.CounterVec
}

// NewMetrics creates and registers the interaction collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		buttonFires: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrscene_button_fires_total",
			Help: "Number of times a gesture button fired its action",
		}, []string{"button"}),
		sliderChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrscene_slider_changes_total",
			Help: "Number of ticks in which a slider wrote a new value",
		}, []string{"param"}),
	}
	for _, c := range []prometheus.Collector{m.buttonFires, m.sliderChanges} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ButtonFires returns the fire counter of one button label.
func (m *Metrics) ButtonFires(label string) prometheus.Counter {
	return m.buttonFires.WithLabelValues(label)
}
