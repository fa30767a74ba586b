package observability

import (
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the tutorial counters.
type Metrics struct {
	Loads      *prometheus.CounterVec
	StepViews  *prometheus.CounterVec
	Dismissals *prometheus.CounterVec
	Resets     *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tamashi_tutorial_loads_total",
				Help: "Total number of tutorials loaded or restored",
			},
			[]string{"tutorial_id"},
		),
		StepViews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tamashi_step_views_total",
				Help: "Total number of times a step became the current step",
			},
			[]string{"tutorial_id", "step_id"},
		),
		Dismissals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tamashi_tutorial_dismissals_total",
				Help: "Total number of dismissals, including finishing the last step",
			},
			[]string{"tutorial_id"},
		),
		Resets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tamashi_tutorial_resets_total",
				Help: "Total number of tutorial resets",
			},
			[]string{"tutorial_id"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Loads, m.StepViews, m.Dismissals, m.Resets)
	}
	return m
}

// Hooks records events into the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(e *domain.Event) {
			m.Loads.WithLabelValues(e.TutorialID).Inc()
		},
		OnStepEnter: func(e *domain.Event) {
			m.StepViews.WithLabelValues(e.TutorialID, e.StepID).Inc()
		},
		OnDismiss: func(e *domain.Event) {
			m.Dismissals.WithLabelValues(e.TutorialID).Inc()
		},
		OnReset: func(e *domain.Event) {
			m.Resets.WithLabelValues(e.TutorialID).Inc()
		},
	}
}
