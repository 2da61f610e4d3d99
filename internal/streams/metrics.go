package streams

import (
	"download-analytics/internal/shared/metrics"
)

var (
	streamBatchProcessed = "batch_processed"

	metricEventPublishedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "event_published_total",
		},
		[]string{"stream_id"},
	)

	metricEventDroppedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "event_dropped_total",
		},
		[]string{"stream_id"},
	)
)
