// Package metrics provides Prometheus metrics for annotation runs.
//
// remark is a command-line tool, so nothing is scraped: each run writes its
// registry to a textfile in node_exporter textfile-collector format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for remark. Each instance owns a
// private registry, so tests and repeated runs in watch mode never collide
// with the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	ParagraphsTotal   prometheus.Counter
	MatchesTotal      *prometheus.CounterVec
	AnnotationsTotal  prometheus.Counter
	SplitsTotal       prometheus.Counter
	ClearedTotal      prometheus.Counter
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	LastRunTimestamp  prometheus.Gauge
	DictionaryEntries prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.ParagraphsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "remark_paragraphs_scanned_total",
		Help: "Total number of paragraphs scanned for dictionary terms",
	})
	m.MatchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remark_matches_total",
			Help: "Total number of term occurrences found",
		},
		[]string{"term"},
	)
	m.AnnotationsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "remark_annotations_created_total",
		Help: "Total number of comments created",
	})
	m.SplitsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "remark_run_splits_total",
		Help: "Total number of text runs split at match boundaries",
	})
	m.ClearedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "remark_annotations_cleared_total",
		Help: "Total number of existing comments removed before annotating",
	})
	m.RunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remark_runs_total",
			Help: "Total number of document runs",
		},
		[]string{"status"},
	)
	m.RunDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "remark_run_duration_seconds",
		Help:    "Duration of annotation runs in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})
	m.LastRunTimestamp = factory.NewGauge(prometheus.GaugeOpts{
		Name: "remark_last_run_timestamp_seconds",
		Help: "Unix time of the last completed run",
	})
	m.DictionaryEntries = factory.NewGauge(prometheus.GaugeOpts{
		Name: "remark_dictionary_entries",
		Help: "Number of distinct terms in the loaded dictionary",
	})
	return m
}

// RunStats is what one document run contributes.
type RunStats struct {
	Paragraphs  int
	Splits      int
	Annotations int
	Cleared     int
	PerTerm     map[string]int
	Duration    time.Duration
	Finished    time.Time
}

// RecordRun adds a successful run.
func (m *Metrics) RecordRun(s RunStats) {
	m.ParagraphsTotal.Add(float64(s.Paragraphs))
	m.SplitsTotal.Add(float64(s.Splits))
	m.AnnotationsTotal.Add(float64(s.Annotations))
	m.ClearedTotal.Add(float64(s.Cleared))
	for term, n := range s.PerTerm {
		m.MatchesTotal.WithLabelValues(term).Add(float64(n))
	}
	m.RunDuration.Observe(s.Duration.Seconds())
	m.LastRunTimestamp.Set(float64(s.Finished.Unix()))
	m.RunsTotal.WithLabelValues("ok").Inc()
}

// RecordFailure counts a run that aborted with an error.
func (m *Metrics) RecordFailure() {
	m.RunsTotal.WithLabelValues("error").Inc()
}

// WriteTextfile atomically writes the registry to path, creating its
// directory if needed.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
