// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecucondor"

var (
	// RateRefreshTotal counts refresh cycles by outcome: ok, partial or failed.
	RateRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rates",
		Name:      "refresh_total",
		Help:      "Rate refresh cycles by outcome.",
	}, []string{"result"})

	// RateFetchFailuresTotal counts failed upstream fetches per pair.
	RateFetchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rates",
		Name:      "fetch_failures_total",
		Help:      "Failed price feed fetches per pair.",
	}, []string{"pair"})

	// RateLastRefresh is the unix time of the last published snapshot.
	RateLastRefresh = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "rates",
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix time of the last published rate snapshot.",
	})

	// PriceLockConsumeTotal counts consume attempts: consumed or rejected.
	PriceLockConsumeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price_locks",
		Name:      "consume_total",
		Help:      "Price lock consume attempts by outcome.",
	}, []string{"result"})

	// LimitDecisionsTotal counts admission decisions by operation and outcome.
	LimitDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "limits",
		Name:      "decisions_total",
		Help:      "Limit admission decisions by operation and result.",
	}, []string{"operation", "result"})

	// HTTPRequestDuration observes handler latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
