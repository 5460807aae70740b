// Package metrics holds the Prometheus collectors the portal exports on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Navigations counts navigation attempts by requested location and outcome (entered, redirected).
	Navigations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hris_portal_navigations_total",
		Help: "Total number of navigations by location and outcome",
	}, []string{"location", "outcome"})

	// GuardRedirects counts redirects by the guard that fired.
	GuardRedirects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hris_portal_guard_redirects_total",
		Help: "Total number of navigation redirects by guard",
	}, []string{"guard"})

	// StorePersists counts full-document writes by result (ok, error).
	StorePersists = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hris_portal_store_persists_total",
		Help: "Total number of record store persists by result",
	}, []string{"result"})

	// StorePersistLatency records how long a full-document write takes.
	StorePersistLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hris_portal_store_persist_latency_seconds",
		Help:    "Record store persist latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// StoreReseeds counts restores that fell back to the seeded document.
	StoreReseeds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hris_portal_store_reseeds_total",
		Help: "Total number of restores that reseeded the store, by reason",
	}, []string{"reason"})
)

// CronRuns counts housekeeping job runs by job and result (ok, error).
var CronRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hris_portal_cron_runs_total",
	Help: "Total number of housekeeping job runs by job and result",
}, []string{"job", "result"})
