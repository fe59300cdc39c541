package observability

import (
	"context"
	"errors"

	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the search collectors.
type Metrics struct {
	runs       *prometheus.CounterVec
	failures   prometheus.Counter
	steps      prometheus.Histogram
	enumerated prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Registering twice on the same registry reuses the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "busybeaver_runs_total",
				Help: "Total number of completed bounded runs by outcome",
			},
			[]string{"outcome"},
		),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busybeaver_run_errors_total",
			Help: "Total number of runs that failed with an error",
		}),
		steps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "busybeaver_run_steps",
			Help:    "Steps taken per bounded run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		enumerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busybeaver_enumerated_total",
			Help: "Total number of transition tables handed to the search",
		}),
	}

	m.runs = register(reg, m.runs)
	m.failures = register(reg, m.failures)
	m.steps = register(reg, m.steps)
	m.enumerated = register(reg, m.enumerated)

	var err error
	for _, outcome := range []domain.Outcome{domain.OutcomeHalted, domain.OutcomeStuck, domain.OutcomeExhausted} {
		// Pre-create series so dashboards show zeros instead of gaps.
		if _, e := m.runs.GetMetricWithLabelValues(string(outcome)); e != nil {
			err = errors.Join(err, e)
		}
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// Hooks returns run hooks that feed the collectors.
func (m *Metrics) Hooks() domain.RunHooks {
	return domain.RunHooks{
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				m.failures.Inc()
				return
			}
			if e.Result == nil {
				return
			}
			m.runs.WithLabelValues(string(e.Result.Outcome)).Inc()
			m.steps.Observe(float64(e.Result.Steps))
		},
	}
}

// ObserveEnumerated counts n tables pulled from the enumeration.
func (m *Metrics) ObserveEnumerated(n int) {
	m.enumerated.Add(float64(n))
}
