package ingestors

import (
	"download-analytics/internal/shared/metrics"
)

const (
	dropReasonMalformed = "malformed"
	dropReasonZeroBytes = "zero_bytes"

	flushTriggerSize     = "size"
	flushTriggerTime     = "time"
	flushTriggerShutdown = "shutdown"
)

var (
	metricLinesSubmittedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPipeline,
			Name:      "lines_submitted_total",
		},
		[]string{},
	)

	metricLinesEvictedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPipeline,
			Name:      "lines_evicted_total",
		},
		[]string{},
	)

	metricLinesParsedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPipeline,
			Name:      "lines_parsed_total",
		},
		[]string{},
	)

	metricLinesDroppedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPipeline,
			Name:      "lines_dropped_total",
		},
		[]string{"reason"},
	)

	metricBatchFlushedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPipeline,
			Name:      "batch_flushed_total",
		},
		[]string{"trigger"},
	)
)
