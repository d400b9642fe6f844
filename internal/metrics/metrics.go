package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cstest/internal/testmgr"
)

const (
	MetricsNamespace = "cstest"
)

// Metrics holds the collectors of one process on a private registry, so
// nothing leaks into the default prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	testsTotal    *prometheus.CounterVec
	testDuration  *prometheus.HistogramVec
	runTestsTotal *prometheus.GaugeVec
	runFailed     *prometheus.GaugeVec
	runDuration   *prometheus.GaugeVec
	runResult     *prometheus.GaugeVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		testsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "tests_total",
			Help:      "Count of executed tests by result",
		}, []string{
			"case",
			"test",
			"result",
		}),

		testDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "test_duration_seconds",
			Help:      "Duration of executed tests",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		}, []string{
			"case",
		}),

		runTestsTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_tests",
			Help:      "Number of tests in a run",
		}, []string{
			"run_id",
		}),

		runFailed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_failed_tests",
			Help:      "Number of failed tests in a run",
		}, []string{
			"run_id",
		}),

		runDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a run",
		}, []string{
			"run_id",
		}),

		runResult: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_result",
			Help:      "Result of a run, set to 1 for the result label that applies",
		}, []string{
			"run_id",
			"result",
		}),
	}
}

func resultLabel(status testmgr.TestStatus) string {
	switch status {
	case testmgr.TestStatusPassed:
		return "pass"
	case testmgr.TestStatusTimedOut:
		return "timeout"
	default:
		return "fail"
	}
}

// RecordTest records the outcome of a single finished test.
func (m *Metrics) RecordTest(result testmgr.TestResult) {
	m.testsTotal.WithLabelValues(result.Test.CaseName(), result.Test.Name(), resultLabel(result.Status)).Inc()
	m.testDuration.WithLabelValues(result.Test.CaseName()).Observe(result.Duration.Seconds())
}

// RecordRun records the totals of a finished run.
func (m *Metrics) RecordRun(report *testmgr.Report) {
	result := "pass"
	if !report.Ok() {
		result = "fail"
	}

	m.runTestsTotal.WithLabelValues(report.RunID()).Set(float64(report.Total()))
	m.runFailed.WithLabelValues(report.RunID()).Set(float64(report.FailedCount()))
	m.runDuration.WithLabelValues(report.RunID()).Set(report.Duration().Seconds())
	m.runResult.WithLabelValues(report.RunID(), result).Set(1)
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric to path in the text exposition format
// read by the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to '%s': %w", path, err)
	}

	return nil
}
