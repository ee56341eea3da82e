package engine

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the analysis engine.
type Metrics struct {
	AnalysesTotal          *prometheus.CounterVec
	IssuesTotal            *prometheus.CounterVec
	MisgenderingFlagsTotal prometheus.Counter
	SuppressedMatchesTotal prometheus.Counter
	AnalysisDuration       prometheus.Histogram
	InvariantViolations    prometheus.Counter
	RegistrationsTotal     *prometheus.CounterVec
}

// NewMetrics registers the engine metrics once per process and returns
// them.
//
// Metrics:
//   - inklude_analyses_total{tone} - Count of analyses run
//   - inklude_issues_total{category} - Count of issues reported
//   - inklude_misgendering_flags_total - Count of misgendering flags
//   - inklude_suppressed_matches_total - Lexicon matches suppressed by entities
//   - inklude_analysis_duration_seconds - Histogram of analysis latency
//   - inklude_invariant_violations_total - Matches dropped for bad spans
//   - inklude_neopronoun_registrations_total{result} - added, duplicate or rejected
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			AnalysesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inklude_analyses_total",
					Help: "Total number of texts analysed",
				},
				[]string{"tone"},
			),
			IssuesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inklude_issues_total",
					Help: "Total number of issues reported",
				},
				[]string{"category"},
			),
			MisgenderingFlagsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "inklude_misgendering_flags_total",
					Help: "Total number of misgendering flags raised",
				},
			),
			SuppressedMatchesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "inklude_suppressed_matches_total",
					Help: "Total number of lexicon matches suppressed by named entities",
				},
			),
			AnalysisDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "inklude_analysis_duration_seconds",
					Help:    "Duration of a single text analysis in seconds",
					Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs to ~1.6s
				},
			),
			InvariantViolations: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "inklude_invariant_violations_total",
					Help: "Total number of matches dropped because their span did not fit the text",
				},
			),
			RegistrationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inklude_neopronoun_registrations_total",
					Help: "Total number of neo-pronoun registration attempts",
				},
				[]string{"result"},
			),
		}
	})
	return globalMetrics
}

func (m *Metrics) recordAnalysis(tone string, seconds float64, issues map[string]int, flags, suppressed int) {
	m.AnalysesTotal.WithLabelValues(tone).Inc()
	m.AnalysisDuration.Observe(seconds)
	for category, n := range issues {
		m.IssuesTotal.WithLabelValues(category).Add(float64(n))
	}
	m.MisgenderingFlagsTotal.Add(float64(flags))
	m.SuppressedMatchesTotal.Add(float64(suppressed))
}

func (m *Metrics) recordRegistration(result string) {
	m.RegistrationsTotal.WithLabelValues(result).Inc()
}
