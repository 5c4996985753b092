package notify

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const outcomeCompleted = "completed"

// Metrics counts dispatch outcomes. A nil *Metrics records nothing.
type Metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg; a nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raycon_notify",
			Name:      "dispatch_total",
			Help:      "Dispatch attempts by mode and outcome.",
		}, []string{"mode", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "raycon_notify",
			Name:      "dispatch_duration_seconds",
			Help:      "Time from submission to terminal state.",
			Buckets:   []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"mode"}),
	}
	if reg == nil {
		return m, nil
	}
	if err := reg.Register(m.dispatches); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.dispatches = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return m, nil
}

func (m *Metrics) observe(code ModeCode, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(code.Name(), outcome).Inc()
	m.duration.WithLabelValues(code.Name()).Observe(took.Seconds())
}
