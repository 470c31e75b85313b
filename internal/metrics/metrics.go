// Package metrics exposes Prometheus collectors for the trending tracker.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchesTotal               *prometheus.CounterVec
	fetchDurationSeconds       *prometheus.HistogramVec
	repositoriesExtractedTotal prometheus.Counter
	listingsSkippedTotal       prometheus.Counter
	runsTotal                  *prometheus.CounterVec
	snapshotsMergedTotal       prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trending_fetches_total",
				Help: "Total number of trending page fetches, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trending_fetch_duration_seconds",
				Help:    "Histogram of trending page fetch latencies, labeled by outcome.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"outcome"},
		)

		repositoriesExtractedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "trending_repositories_extracted_total",
				Help: "Total number of repository listings extracted from fetched pages.",
			},
		)

		listingsSkippedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "trending_listings_skipped_total",
				Help: "Total number of listings skipped because their markup was unparseable.",
			},
		)

		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trending_runs_total",
				Help: "Total number of gather runs, labeled by status.",
			},
			[]string{"status"},
		)

		snapshotsMergedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "trending_snapshots_merged_total",
				Help: "Total number of per-run snapshot files folded into the cumulative store.",
			},
		)
	})
}

// RecordFetch counts one page fetch and observes its latency.
func RecordFetch(outcome string, d time.Duration) {
	if fetchesTotal == nil {
		return
	}
	fetchesTotal.WithLabelValues(outcome).Inc()
	fetchDurationSeconds.WithLabelValues(outcome).Observe(d.Seconds())
}

// AddRepositoriesExtracted counts listings extracted from one page.
func AddRepositoriesExtracted(n int) {
	if repositoriesExtractedTotal == nil || n <= 0 {
		return
	}
	repositoriesExtractedTotal.Add(float64(n))
}

// RecordListingSkipped counts one listing dropped for unparseable markup.
func RecordListingSkipped() {
	if listingsSkippedTotal == nil {
		return
	}
	listingsSkippedTotal.Inc()
}

// RecordRun counts one completed gather run by status.
func RecordRun(status string) {
	if runsTotal == nil {
		return
	}
	runsTotal.WithLabelValues(status).Inc()
}

// AddSnapshotsMerged counts snapshot files consumed by a merge pass.
func AddSnapshotsMerged(n int) {
	if snapshotsMergedTotal == nil || n <= 0 {
		return
	}
	snapshotsMergedTotal.Add(float64(n))
}
