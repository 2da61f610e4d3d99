package ingestors

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"download-analytics/internal/aggregators"
	"download-analytics/internal/models"
	"download-analytics/internal/shared/configs"
	"download-analytics/internal/shared/loggers"
)

// LogPipeline is the ingestion boundary called by the external log-tailing
// collaborator.
//
//go:generate mockgen -source=pipeline.go -destination=./mocks/pipeline_mock.go -package=mocks
type LogPipeline interface {
	// Submit offers one raw log line. Under normal mode the return value
	// reports acceptance; under throughput mode it is true after the caller
	// is resumed (false only once shutdown has begun).
	Submit(line string) bool
	// Stats is a point-in-time introspection snapshot.
	Stats() models.PipelineStats
}

// Pipeline is the concurrent multi-stage ingestion pipeline:
//
//	raw line -> raw queue -> parser pool -> parsed queue -> consumers ->
//	batch accumulator -> aggregation engine (async per batch)
//
// The raw queue's fill strategy is selected at construction from the
// configured mode; the parsed queue always applies blocking backpressure.
type Pipeline struct {
	cfg configs.PipelineConfig

	raw    BoundedQueue[string]
	parsed BoundedQueue[*models.ParsedRecord]
	pool   *ParserPool
	acc    *BatchAccumulator

	processor aggregators.AggregationService

	consumerWg sync.WaitGroup
	batchWg    sync.WaitGroup
	timerWg    sync.WaitGroup
	stopTimer  chan struct{}
	runCtx     context.Context

	startOnce sync.Once
	stopOnce  sync.Once

	logger loggers.Logger
}

func NewPipeline(cfg configs.PipelineConfig, processor aggregators.AggregationService, logger loggers.Logger) *Pipeline {
	var raw BoundedQueue[string]
	if cfg.ThroughputMode {
		raw = NewBlockingQueue[string](cfg.Capacity)
	} else {
		raw = NewEvictOldestQueue[string](cfg.Capacity, func() {
			metricLinesEvictedTotal.WithLabelValues().Inc()
		})
	}
	parsed := NewBlockingQueue[*models.ParsedRecord](cfg.Capacity)

	return &Pipeline{
		cfg:       cfg,
		raw:       raw,
		parsed:    parsed,
		pool:      NewParserPool(raw, parsed, cfg.ParserCount, cfg.ParsePermits, logger),
		acc:       NewBatchAccumulator(cfg.BatchSize),
		processor: processor,
		stopTimer: make(chan struct{}),
		logger:    logger,
	}
}

// Submit offers one raw line to the pipeline.
func (p *Pipeline) Submit(line string) bool {
	accepted := p.raw.Submit(line)
	if accepted {
		metricLinesSubmittedTotal.WithLabelValues().Inc()
	}
	return accepted
}

// Start launches the parser and consumer workers plus the flush timer.
func (p *Pipeline) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.runCtx = ctx
		p.pool.Start(ctx)

		for workerID := 0; workerID < p.cfg.ConsumerCount; workerID++ {
			p.consumerWg.Add(1)
			go func(workerID int) {
				defer p.consumerWg.Done()
				p.runConsumer(ctx, workerID)
			}(workerID)
		}

		p.timerWg.Add(1)
		go func() {
			defer p.timerWg.Done()
			p.runFlushTimer(ctx)
		}()
	})
}

func (p *Pipeline) runConsumer(ctx context.Context, workerID int) {
	for {
		record, ok := p.parsed.Dequeue()
		if !ok {
			return
		}

		if batch := p.acc.Append(record); batch != nil {
			metricBatchFlushedTotal.WithLabelValues(flushTriggerSize).Inc()
			p.dispatch(ctx, batch)
		}
	}
}

// runFlushTimer bounds worst-case end-to-end latency: a non-empty buffer is
// flushed every batch timeout even when the size trigger never fires.
func (p *Pipeline) runFlushTimer(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.BatchTimeout())
	defer ticker.Stop()

	for {
		select {
		case <-p.stopTimer:
			return
		case <-ticker.C:
			if batch := p.acc.Drain(); batch != nil {
				metricBatchFlushedTotal.WithLabelValues(flushTriggerTime).Inc()
				p.dispatch(ctx, batch)
			}
		}
	}
}

// dispatch hands a batch to the aggregation engine asynchronously; the
// flushing worker never blocks on persistence.
func (p *Pipeline) dispatch(ctx context.Context, batch []*models.ParsedRecord) {
	p.batchWg.Add(1)
	go func() {
		defer p.batchWg.Done()
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				p.logger.Error().
					Err(err).
					Bytes(loggers.FieldErrorStack, debug.Stack()).
					Msg("batch processing panic recovered")
			}
		}()

		p.processor.ProcessBatch(ctx, batch)
	}()
}

// Shutdown stops intake, drains both queues, forces a final flush and waits
// for every outstanding batch-processing operation, bounded by ctx.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		if p.runCtx == nil {
			p.runCtx = context.Background()
		}
		p.raw.Close()
		p.pool.Wait()

		p.parsed.Close()
		p.consumerWg.Wait()

		// The timer goroutine must be joined before the final drain; a tick
		// in flight could otherwise grab the buffer concurrently with the
		// batchWg wait below.
		close(p.stopTimer)
		p.timerWg.Wait()
		if batch := p.acc.Drain(); batch != nil {
			metricBatchFlushedTotal.WithLabelValues(flushTriggerShutdown).Inc()
			p.dispatch(p.runCtx, batch)
		}

		done := make(chan struct{})
		go func() {
			p.batchWg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			err = fmt.Errorf("pipeline shutdown: %w", ctx.Err())
		}
	})
	return err
}

// Stats returns the introspection snapshot.
func (p *Pipeline) Stats() models.PipelineStats {
	return models.PipelineStats{
		RawQueueDepth:    p.raw.Depth(),
		ParsedQueueDepth: p.parsed.Depth(),
		BufferedCount:    p.acc.Len(),
		Capacity:         p.cfg.Capacity,
		ActiveConsumers:  p.cfg.ConsumerCount,
		ActiveParsers:    p.cfg.ParserCount,
		ThroughputMode:   p.cfg.ThroughputMode,
	}
}
