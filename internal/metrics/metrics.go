// Package metrics holds the prometheus collectors exported on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_registrations_total",
		Help: "Signup attempts by outcome",
	}, []string{"outcome"})

	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_verifications_total",
		Help: "Verification attempts by outcome",
	}, []string{"outcome"})

	SweptRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_swept_pending_records_total",
		Help: "Abandoned pending records removed by the sweeper",
	})

	AssetDeleteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_asset_delete_failures_total",
		Help: "Hosted asset deletions that failed and were recorded as orphans",
	})

	SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_sweep_runs_total",
		Help: "Sweeper runs by outcome",
	}, []string{"outcome"})
)
