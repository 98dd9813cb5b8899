package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RetrievalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crosssell_retrievals_total",
		Help: "Total number of cross-sell retrieval runs",
	})

	RetrievalsEmptyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crosssell_retrievals_empty_total",
		Help: "Total number of retrieval runs that produced no products",
	}, []string{"reason"})

	ProductsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crosssell_products_returned",
		Help:    "Number of products returned per retrieval run",
		Buckets: prometheus.LinearBuckets(0, 1, 11),
	})

	CandidatesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crosssell_candidates_skipped_total",
		Help: "Total number of candidates rejected by retrieval filters",
	}, []string{"reason"})

	CandidateFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crosssell_candidate_fetch_latency_seconds",
		Help:    "Latency of candidate source fetches",
		Buckets: prometheus.DefBuckets,
	})

	GroupsWalkedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crosssell_groups_walked_total",
		Help: "Total number of rule groups pulled during retrieval",
	})

	SortFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crosssell_sort_fallbacks_total",
		Help: "Total number of popularity sorts that fell back to random",
	})

	AugmentationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crosssell_augmentation_failures_total",
		Help: "Total number of cart summaries returned without a related-items block due to errors",
	})

	PayloadCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crosssell_payload_cache_total",
		Help: "Related-items payload cache lookups",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
