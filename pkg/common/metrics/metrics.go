// Package metrics holds the Prometheus collectors of the blog.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts counts register/login/logout calls by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dofe_blog_auth_attempts_total",
		Help: "Authentication operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// PostOperations counts post create/update/delete calls by outcome.
	PostOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dofe_blog_post_operations_total",
		Help: "Post mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dofe_blog_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)

