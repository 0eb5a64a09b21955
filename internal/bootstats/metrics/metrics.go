package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	prefix = "bootstats_"

	outcomeLabel = "outcome"
	taskLabel    = "task"

	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Metrics describes one bootstats invocation. It is a prometheus.Collector; nothing is registered globally.
type Metrics struct {
	categories          *prometheus.CounterVec
	iterations          prometheus.Counter
	undefinedStatistics prometheus.Counter
	results             prometheus.Counter
	categoryDuration    prometheus.Histogram
	runDuration         prometheus.Gauge
	lastRunTimestamp    prometheus.Gauge
}

// New returns metrics whose series carry a constant task label.
func New(task string) *Metrics {
	constLabels := prometheus.Labels{taskLabel: task}
	return &Metrics{
		categories: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        prefix + "categories_total",
				Help:        "Number of categories processed, by outcome",
				ConstLabels: constLabels,
			},
			[]string{outcomeLabel},
		),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        prefix + "iterations_total",
			Help:        "Number of completed bootstrap iterations",
			ConstLabels: constLabels,
		}),
		undefinedStatistics: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        prefix + "undefined_statistics_total",
			Help:        "Number of results without a single non-missing observation",
			ConstLabels: constLabels,
		}),
		results: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        prefix + "results_total",
			Help:        "Number of result rows produced",
			ConstLabels: constLabels,
		}),
		categoryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        prefix + "category_duration_seconds",
			Help:        "Time taken to bootstrap one category",
			Buckets:     prometheus.ExponentialBuckets(0.01, 2, 20),
			ConstLabels: constLabels,
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        prefix + "run_duration_seconds",
			Help:        "Wall-clock duration of the last run",
			ConstLabels: constLabels,
		}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        prefix + "last_run_timestamp_seconds",
			Help:        "Unix time at which the last run finished",
			ConstLabels: constLabels,
		}),
	}
}

func (m *Metrics) ReportIterations(n int) {
	m.iterations.Add(float64(n))
}

func (m *Metrics) ReportCategorySucceeded(duration time.Duration, results int, undefined int) {
	m.categories.WithLabelValues(OutcomeSucceeded).Inc()
	m.categoryDuration.Observe(duration.Seconds())
	m.results.Add(float64(results))
	m.undefinedStatistics.Add(float64(undefined))
}

func (m *Metrics) ReportCategoryFailed(duration time.Duration) {
	m.categories.WithLabelValues(OutcomeFailed).Inc()
	m.categoryDuration.Observe(duration.Seconds())
}

func (m *Metrics) ReportRunFinished(duration time.Duration, finished time.Time) {
	m.runDuration.Set(duration.Seconds())
	m.lastRunTimestamp.Set(float64(finished.Unix()))
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.categories.Describe(ch)
	m.iterations.Describe(ch)
	m.undefinedStatistics.Describe(ch)
	m.results.Describe(ch)
	m.categoryDuration.Describe(ch)
	m.runDuration.Describe(ch)
	m.lastRunTimestamp.Describe(ch)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.categories.Collect(ch)
	m.iterations.Collect(ch)
	m.undefinedStatistics.Collect(ch)
	m.results.Collect(ch)
	m.categoryDuration.Collect(ch)
	m.runDuration.Collect(ch)
	m.lastRunTimestamp.Collect(ch)
}

// WriteToTextfile writes the metrics in the text exposition format, for collection by the node exporter's
// textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(m); err != nil {
		return errors.WithStack(err)
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
