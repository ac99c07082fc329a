// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteFetches counts remote API calls by endpoint kind and outcome.
	RemoteFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_remote_fetches_total",
		Help: "Total number of remote API fetches by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	// RemoteFetchLatency records round-trip latency of remote API calls.
	RemoteFetchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postboard_remote_fetch_latency_seconds",
		Help:    "Remote API fetch latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// CacheLookups counts response cache lookups by result (hit or miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_cache_lookups_total",
		Help: "Total number of response cache lookups by result",
	}, []string{"backend", "result"})

	// CommentAppends counts local comment submissions by outcome.
	CommentAppends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_comment_appends_total",
		Help: "Total number of local comment submissions by outcome",
	}, []string{"outcome"})

	// HTTPRequests counts served HTTP requests by method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "status"})
)
