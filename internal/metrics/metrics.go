// Public domain.

// Package metrics collects batch run statistics and writes them in the
// Prometheus text format, suitable for a node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/astrolabs/difphot/internal/diffphot"
)

// Namespace prefixes every metric name.
const Namespace = "difphot"

// Collector holds the metrics of one run in its own registry.
type Collector struct {
	Registry *prometheus.Registry

	// processing
	EpochsTotal        prometheus.Counter
	EpochsDroppedTotal *prometheus.CounterVec
	MatchesTotal       *prometheus.CounterVec
	Rows               prometheus.Gauge
	UnstableEpochs     prometheus.Gauge
	ProcessingDuration prometheus.Histogram

	// download
	ProductsTotal       prometheus.Counter
	ProductsSkipped     *prometheus.CounterVec
	DownloadDuration    prometheus.Histogram
	LastSuccessUnixtime prometheus.Gauge
}

// NewCollector creates a collector with a fresh registry.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		Registry: reg,

		EpochsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "epochs_processed_total",
				Help:      "Number of epochs read from the archive",
			},
		),

		EpochsDroppedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "epochs_dropped_total",
				Help:      "Number of epochs excluded from the results by reason",
			},
			[]string{"reason"},
		),

		MatchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "matches_total",
				Help:      "Number of result rows in which the object was matched",
			},
			[]string{"object"},
		),

		Rows: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "result_rows",
				Help:      "Number of rows written to the results file",
			},
		),

		UnstableEpochs: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "unstable_comparison_epochs",
				Help:      "Epochs where comparison star differences depart from their median",
			},
		),

		ProcessingDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "processing_duration_seconds",
				Help:      "Duration of matching and differential photometry",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
			},
		),

		ProductsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "products_listed_total",
				Help:      "Number of data products listed by the catalog service",
			},
		),

		ProductsSkipped: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "products_skipped_total",
				Help:      "Number of data products not archived by reason",
			},
			[]string{"reason"},
		),

		DownloadDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "download_duration_seconds",
				Help:      "Duration of a complete download run",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),

		LastSuccessUnixtime: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_unixtime",
				Help:      "Time the last run completed",
			},
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer starts a timer reporting to h.
func (c *Collector) NewTimer(h prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: h,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(d.Seconds())
	}
	return d
}

// RecordProcess records the outcome of diffphot.Processor.Process.
// names are the comparison star names in row order.
func (c *Collector) RecordProcess(nEpochs int, rows []diffphot.Row, dropped []diffphot.Dropped, names []string) {
	c.EpochsTotal.Add(float64(nEpochs))
	for _, d := range dropped {
		c.EpochsDroppedTotal.WithLabelValues(d.Reason).Inc()
	}
	c.Rows.Set(float64(len(rows)))
	for _, r := range rows {
		if r.Target.Matched {
			c.MatchesTotal.WithLabelValues("target").Inc()
		}
		for i, m := range r.Comps {
			if m.Matched && i < len(names) {
				c.MatchesTotal.WithLabelValues(names[i]).Inc()
			}
		}
	}
}

// RecordSkip counts a data product left out of the archive.
func (c *Collector) RecordSkip(reason string) {
	c.ProductsSkipped.WithLabelValues(reason).Inc()
}

// Done stamps the completion time.
func (c *Collector) Done() {
	c.LastSuccessUnixtime.SetToCurrentTime()
}

// WriteTextfile writes all metrics to fn, atomically replacing it.
func (c *Collector) WriteTextfile(fn string) error {
	return prometheus.WriteToTextfile(fn, c.Registry)
}
