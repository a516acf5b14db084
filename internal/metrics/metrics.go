// Package metrics exposes the pipeline's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsProcessed counts finished units by template kind and outcome.
	DocumentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docforge_documents_processed_total",
		Help: "Composer units finished, labelled by template kind and status.",
	}, []string{"kind", "status"})

	// CacheHits and CacheMisses track image cache effectiveness.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docforge_image_cache_hits_total",
		Help: "Image requests served from the cache.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docforge_image_cache_misses_total",
		Help: "Image requests that walked the source chain.",
	})

	// SourceFailures counts SourceUnavailable outcomes per source.
	SourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docforge_image_source_failures_total",
		Help: "Image source fetch failures by source name.",
	}, []string{"source"})

	// InflightMemory tracks the batch processor's in-flight memory estimate.
	InflightMemory = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "docforge_batch_inflight_memory_bytes",
		Help: "Approximate bytes held by in-flight composer units.",
	})
)
