// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// This package adapts the generic metrics.Backend interface to Prometheus by:
//
//   - Using client_golang CounterVec and SummaryVec collectors.
//   - Mapping the common import labels (table, step, status) onto Prometheus
//     labels.
//   - Pushing collected metrics to a Prometheus Pushgateway instance instead
//     of exposing an HTTP scrape endpoint; an import run is a batch job, not
//     a long-lived scrape target.
//
// The package intentionally contains all Prometheus-specific dependencies so
// that the rest of the project remains decoupled from Prometheus and can swap
// to alternative backends (e.g. Datadog) without changes to the pipeline.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"datloader/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // "import_step_total"
	stepDuration *prometheus.SummaryVec // "import_step_duration_seconds"
	rowCounter   *prometheus.CounterVec // "import_rows_total"
	batchCounter *prometheus.CounterVec // "import_batches_total"
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name (usually the run identifier).
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "datload"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_step_total",
			Help: "Total number of import step executions, partitioned by table, step, and status.",
		},
		[]string{"table", "step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "import_step_duration_seconds",
			Help:       "Duration of import steps in seconds, partitioned by table, step, and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"table", "step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Row-level counts per table and kind (read, inserted, bool_warnings).",
		},
		[]string{"table", "kind"},
	)
	batchCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_batches_total",
			Help: "Total number of bulk-insert batches flushed, partitioned by table.",
		},
		[]string{"table"},
	)

	if err := reg.Register(stepCounter); err != nil {
		return nil, fmt.Errorf("prompush: register step counter: %w", err)
	}
	if err := reg.Register(stepDuration); err != nil {
		return nil, fmt.Errorf("prompush: register step summary: %w", err)
	}
	if err := reg.Register(rowCounter); err != nil {
		return nil, fmt.Errorf("prompush: register row counter: %w", err)
	}
	if err := reg.Register(batchCounter); err != nil {
		return nil, fmt.Errorf("prompush: register batch counter: %w", err)
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		rowCounter:   rowCounter,
		batchCounter: batchCounter,
	}, nil
}

// IncCounter implements metrics.Backend.IncCounter.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "import_step_total":
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["table"], labels["step"], labels["status"]).Add(delta)

	case "import_rows_total":
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["table"], labels["kind"]).Add(delta)

	case "import_batches_total":
		if b.batchCounter == nil {
			return
		}
		b.batchCounter.WithLabelValues(labels["table"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

// ObserveHistogram implements metrics.Backend.ObserveHistogram.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "import_step_duration_seconds" || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["table"], labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
