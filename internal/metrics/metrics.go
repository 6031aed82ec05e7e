package metrics

import "github.com/prometheus/client_golang/prometheus"

// InterviewMetrics exposes counters for the interview engine. A nil
// *InterviewMetrics is valid and records nothing.
type InterviewMetrics struct {
	transitions  *prometheus.CounterVec
	persistence  *prometheus.CounterVec
	autoPopulate *prometheus.CounterVec
	remoteCalls  *prometheus.HistogramVec
}

func NewInterviewMetrics(reg prometheus.Registerer) *InterviewMetrics {
	m := &InterviewMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamcati",
			Subsystem: "interview",
			Name:      "transitions_total",
			Help:      "Engine transitions by kind",
		}, []string{"kind"}),
		persistence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamcati",
			Subsystem: "interview",
			Name:      "state_saves_total",
			Help:      "Best-effort interview state saves by outcome",
		}, []string{"status"}),
		autoPopulate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamcati",
			Subsystem: "interview",
			Name:      "auto_populate_total",
			Help:      "Auto-populated questions by attribute and outcome",
		}, []string{"attribute", "outcome"}),
		remoteCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "streamcati",
			Subsystem: "store",
			Name:      "call_duration_seconds",
			Help:      "Latency of remote store calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitions, m.persistence, m.autoPopulate, m.remoteCalls)
	return m
}

func (m *InterviewMetrics) ObserveTransition(kind string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind).Inc()
}

func (m *InterviewMetrics) ObserveSave(ok bool) {
	if m == nil {
		return
	}
	m.persistence.WithLabelValues(statusLabel(ok)).Inc()
}

func (m *InterviewMetrics) ObserveAutoPopulate(attribute, outcome string) {
	if m == nil {
		return
	}
	m.autoPopulate.WithLabelValues(attribute, outcome).Inc()
}

func (m *InterviewMetrics) ObserveRemoteCall(op string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	m.remoteCalls.WithLabelValues(op, statusLabel(ok)).Observe(seconds)
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
