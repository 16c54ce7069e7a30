// Package metrics records per-run sampler metrics in Prometheus format.
//
// The tools are batch jobs with no scrape endpoint, so a run writes its
// registry to a text file in the exposition format. A node exporter
// textfile collector can pick the file up from there.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "randlab"

const runSubsystem = "run"

// Summary is what a finished run reports.
type Summary struct {
	Tool     string
	Trials   int
	Draws    int
	HasFit   bool
	PValue   float64
	Duration time.Duration
	Finished time.Time
}

// RunMetrics holds the gauges of one run in a private registry.
type RunMetrics struct {
	registry *prometheus.Registry

	// Trials counts sampled symbols. Labels: tool
	Trials *prometheus.GaugeVec

	// Draws counts raw generator outputs consumed. Labels: tool
	Draws *prometheus.GaugeVec

	// Rejected counts draws discarded by rejection sampling. Labels: tool
	Rejected *prometheus.GaugeVec

	// PValue is the chi-squared uniformity p-value. Labels: tool
	PValue *prometheus.GaugeVec

	// DurationSeconds is the wall time of the run. Labels: tool
	DurationSeconds *prometheus.GaugeVec

	// LastSuccess is the unix time the run finished. Labels: tool
	LastSuccess *prometheus.GaugeVec
}

// New builds run metrics registered in a fresh registry.
func New() *RunMetrics {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: runSubsystem,
			Name:      name,
			Help:      help,
		}, []string{"tool"})
	}
	m := &RunMetrics{
		registry:        prometheus.NewRegistry(),
		Trials:          gauge("trials", "Symbols sampled by the run"),
		Draws:           gauge("draws", "Raw generator outputs consumed by the run"),
		Rejected:        gauge("rejected_draws", "Generator outputs discarded by rejection sampling"),
		PValue:          gauge("chi_squared_p_value", "Chi-squared uniformity p-value of the run"),
		DurationSeconds: gauge("duration_seconds", "Wall time of the run in seconds"),
		LastSuccess:     gauge("last_success_timestamp_seconds", "Unix time the run finished"),
	}
	m.registry.MustRegister(m.Trials, m.Draws, m.Rejected, m.PValue, m.DurationSeconds, m.LastSuccess)
	return m
}

// Observe sets every gauge from s. The p-value gauge is only set when the
// run tested goodness of fit.
func (m *RunMetrics) Observe(s Summary) error {
	if s.Tool == "" {
		return errors.New("tool is required")
	}
	rejected := s.Draws - s.Trials
	if rejected < 0 {
		rejected = 0
	}
	m.Trials.WithLabelValues(s.Tool).Set(float64(s.Trials))
	m.Draws.WithLabelValues(s.Tool).Set(float64(s.Draws))
	m.Rejected.WithLabelValues(s.Tool).Set(float64(rejected))
	if s.HasFit {
		m.PValue.WithLabelValues(s.Tool).Set(s.PValue)
	}
	m.DurationSeconds.WithLabelValues(s.Tool).Set(s.Duration.Seconds())
	m.LastSuccess.WithLabelValues(s.Tool).Set(float64(s.Finished.Unix()))
	return nil
}

// Gatherer exposes the registry.
func (m *RunMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the registry to path in the text exposition format.
func (m *RunMetrics) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics path is required")
	}
	return prometheus.WriteToTextfile(path, m.Gatherer())
}
