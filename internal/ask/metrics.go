package ask

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the ask collectors.
type Metrics struct {
	asks          *prometheus.CounterVec
	modelDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg. A nil reg leaves them
// unregistered, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		asks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "group_memory_ask_total",
			Help: "Ask requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		modelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "group_memory_model_duration_seconds",
			Help:    "Duration of model calls.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"provider"}),
	}
	if reg != nil {
		reg.MustRegister(m.asks, m.modelDuration)
	}
	return m
}

func (m *Metrics) observeAsk(mode Mode, outcome Outcome) {
	if m == nil {
		return
	}
	m.asks.WithLabelValues(string(mode), string(outcome)).Inc()
}

func (m *Metrics) observeModel(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.modelDuration.WithLabelValues(provider).Observe(d.Seconds())
}
