package aggregators

import (
	"download-analytics/internal/shared/metrics"
)

const (
	closeReasonIdle    = "idle"
	closeReasonCeiling = "size_ceiling"

	skipReasonBelowThreshold = "below_min_size"
)

var (
	metricGroupProcessedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "group_processed_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricRecordsAggregatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "records_aggregated_total",
		},
		[]string{},
	)

	metricRecordsSkippedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "records_skipped_total",
		},
		[]string{"reason"},
	)

	metricSessionsCreatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "sessions_created_total",
		},
		[]string{},
	)

	metricSessionsClosedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "sessions_closed_total",
		},
		[]string{"reason"},
	)
)
