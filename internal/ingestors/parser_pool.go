package ingestors

import (
	"context"
	"strings"
	"sync"

	"download-analytics/internal/models"
	"download-analytics/internal/parsers"
	"download-analytics/internal/shared/loggers"

	"golang.org/x/sync/semaphore"
)

// ParserPool runs N workers that dequeue raw lines, parse them into records
// and feed the parsed queue. Zero-byte and malformed lines are dropped
// silently (logged at debug, counted). Submission to the parsed queue always
// blocks under backpressure, regardless of the raw queue's fill strategy.
type ParserPool struct {
	raw     BoundedQueue[string]
	parsed  BoundedQueue[*models.ParsedRecord]
	parser  *parsers.LogParser
	workers int
	// permits optionally bounds simultaneous in-flight parses; nil when the
	// limiter is disabled.
	permits *semaphore.Weighted
	wg      sync.WaitGroup
	logger  loggers.Logger
}

func NewParserPool(raw BoundedQueue[string], parsed BoundedQueue[*models.ParsedRecord], workers, parsePermits int, logger loggers.Logger) *ParserPool {
	pool := &ParserPool{
		raw:     raw,
		parsed:  parsed,
		parser:  parsers.NewLogParser(),
		workers: workers,
		logger:  logger,
	}
	if parsePermits > 0 {
		pool.permits = semaphore.NewWeighted(int64(parsePermits))
	}
	return pool
}

// Start spawns the worker goroutines. Workers exit when the raw queue is
// closed and drained.
func (p *ParserPool) Start(ctx context.Context) {
	for workerID := 0; workerID < p.workers; workerID++ {
		p.wg.Add(1)
		go func(workerID int) {
			defer p.wg.Done()
			p.runWorker(ctx, workerID)
		}(workerID)
	}
}

// Wait blocks until every worker has exited.
func (p *ParserPool) Wait() {
	p.wg.Wait()
}

func (p *ParserPool) runWorker(ctx context.Context, workerID int) {
	logger := p.logger.With().Int(loggers.FieldWorkerID, workerID).Logger()

	for {
		line, ok := p.raw.Dequeue()
		if !ok {
			return
		}

		record := p.parse(ctx, logger, line)
		if record == nil {
			continue
		}

		p.parsed.Submit(record)
	}
}

func (p *ParserPool) parse(ctx context.Context, logger loggers.Logger, line string) *models.ParsedRecord {
	if p.permits != nil {
		if err := p.permits.Acquire(ctx, 1); err != nil {
			return nil
		}
		defer p.permits.Release(1)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	record, err := p.parser.ParseLine(line)
	if err != nil {
		metricLinesDroppedTotal.WithLabelValues(dropReasonMalformed).Inc()
		logger.Debug().Err(err).Msg("dropping unparsable line")
		return nil
	}
	if record.ByteCount == 0 {
		metricLinesDroppedTotal.WithLabelValues(dropReasonZeroBytes).Inc()
		return nil
	}

	metricLinesParsedTotal.WithLabelValues().Inc()
	return record
}
