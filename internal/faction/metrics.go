// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for store operation metrics.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
	StatusRejected = "rejected" // validation or business rule failure
	StatusNoop     = "noop"     // soft failure, boolean false path
)

// StoreOperations is the counter for faction store operations.
// Use RegisterMetrics to register this with a Prometheus registry.
var StoreOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "loreforge_faction_operations_total",
		Help: "Total number of faction store operations",
	},
	[]string{"store", "operation", "status"},
)

// OperationDuration is the histogram for faction store operation duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var OperationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "loreforge_faction_operation_duration_seconds",
		Help:    "Faction store operation duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"store", "operation"},
)

// ConflictOutcomes is the counter for territory conflict resolutions.
// Use RegisterMetrics to register this with a Prometheus registry.
var ConflictOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "loreforge_faction_conflict_outcomes_total",
		Help: "Total number of territory conflict resolutions by outcome",
	},
	[]string{"outcome"},
)

// RegisterMetrics registers faction package metrics with the given
// Prometheus registry. Panics if registration fails (prometheus
// convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(StoreOperations)
	reg.MustRegister(OperationDuration)
	reg.MustRegister(ConflictOutcomes)
}

// RecordOperation increments the store operation counter.
func RecordOperation(store, operation, status string) {
	StoreOperations.WithLabelValues(store, operation, status).Inc()
}

// RecordDuration records how long a store operation took.
func RecordDuration(store, operation string, d time.Duration) {
	OperationDuration.WithLabelValues(store, operation).Observe(d.Seconds())
}

// RecordConflictOutcome increments the conflict outcome counter.
func RecordConflictOutcome(outcome ConflictOutcome) {
	ConflictOutcomes.WithLabelValues(outcome.String()).Inc()
}
