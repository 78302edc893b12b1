package notify

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts dispatch outcomes. A nil *Metrics records nothing.
type Metrics struct {
	dispatches *prometheus.CounterVec
	sends      *prometheus.CounterVec
	suppressed *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entityhub",
			Subsystem: "notify",
			Name:      "dispatches_total",
			Help:      "Entity change events handed to a dispatcher.",
		}, []string{"entity", "kind"}),
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entityhub",
			Subsystem: "notify",
			Name:      "sends_total",
			Help:      "Notifications handed to the sender, one per destination group.",
		}, []string{"entity", "kind"}),
		suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entityhub",
			Subsystem: "notify",
			Name:      "suppressed_total",
			Help:      "Dispatches that sent nothing.",
		}, []string{"entity", "kind", "reason"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entityhub",
			Subsystem: "notify",
			Name:      "failures_total",
			Help:      "Dispatch failures by stage.",
		}, []string{"entity", "kind", "stage"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "entityhub",
			Subsystem: "notify",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent in Dispatch.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "kind"}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.dispatches, m.sends, m.suppressed, m.failures, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Sends returns the sends counter, for tests and dashboards wired in code.
func (m *Metrics) Sends() *prometheus.CounterVec { return m.sends }

// Suppressed returns the suppressed counter.
func (m *Metrics) Suppressed() *prometheus.CounterVec { return m.suppressed }

// Failures returns the failures counter.
func (m *Metrics) Failures() *prometheus.CounterVec { return m.failures }

// Dispatches returns the dispatches counter.
func (m *Metrics) Dispatches() *prometheus.CounterVec { return m.dispatches }

func (m *Metrics) observeDispatch(entity string, kind Kind, took time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(entity, kind.Action()).Inc()
	m.duration.WithLabelValues(entity, kind.Action()).Observe(took.Seconds())
}

func (m *Metrics) sent(entity string, kind Kind) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(entity, kind.Action()).Inc()
}

func (m *Metrics) suppress(entity string, kind Kind, reason string) {
	if m == nil {
		return
	}
	m.suppressed.WithLabelValues(entity, kind.Action(), reason).Inc()
}

func (m *Metrics) fail(entity string, kind Kind, err error) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(entity, kind.Action(), stage(err)).Inc()
}

func stage(err error) string {
	switch {
	case errors.Is(err, ErrSelectorFailed):
		return "selector"
	case errors.Is(err, ErrTransformFailed):
		return "transform"
	case errors.Is(err, ErrSendFailed):
		return "send"
	default:
		return "other"
	}
}
