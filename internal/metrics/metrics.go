// Package metrics exposes Prometheus counters for the analysis pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Parse outcomes used as label values.
const (
	OutcomeParsed  = "parsed"
	OutcomeSkipped = "skipped"
)

var (
	// filesDiscoveredTotal counts source files found by discovery.
	filesDiscoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reporeport",
		Subsystem: "pipeline",
		Name:      "files_discovered_total",
		Help:      "Total source files discovered",
	})

	// filesProcessedTotal counts files by parse outcome.
	// Labels: outcome (parsed, skipped)
	filesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reporeport",
		Subsystem: "pipeline",
		Name:      "files_processed_total",
		Help:      "Total source files processed by parse outcome",
	}, []string{"outcome"})

	// taggerCallsTotal counts calls into the part-of-speech tagger.
	taggerCallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reporeport",
		Subsystem: "pos",
		Name:      "tagger_calls_total",
		Help:      "Total part-of-speech tagger invocations",
	})

	// classifierCacheTotal counts classifier cache lookups.
	// Labels: result (hit, miss)
	classifierCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reporeport",
		Subsystem: "pos",
		Name:      "cache_lookups_total",
		Help:      "Classifier cache lookups by result",
	}, []string{"result"})
)

// FilesDiscovered records n newly discovered files.
func FilesDiscovered(n int) {
	filesDiscoveredTotal.Add(float64(n))
}

// FileProcessed records one file with the given outcome.
func FileProcessed(outcome string) {
	filesProcessedTotal.WithLabelValues(outcome).Inc()
}

// TaggerCalled records one tagger invocation.
func TaggerCalled() {
	taggerCallsTotal.Inc()
}

// CacheLookup records a classifier cache hit or miss.
func CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	classifierCacheTotal.WithLabelValues(result).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
