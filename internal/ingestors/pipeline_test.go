package ingestors_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"download-analytics/internal/aggregators/mocks"
	"download-analytics/internal/ingestors"
	"download-analytics/internal/models"
	"download-analytics/internal/shared/configs"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func pipelineConfig(capacity, batchSize int) configs.PipelineConfig {
	return configs.PipelineConfig{
		Capacity:            capacity,
		BatchSize:           batchSize,
		BatchTimeoutSeconds: 60,
		ConsumerCount:       1,
		ParserCount:         2,
		ParsePermits:        2,
	}
}

func cacheLine(clientID, depot string, byteCount int64) string {
	return fmt.Sprintf(
		`[steam] %s / - - - [10/Jan/2024:16:28:34 -0600] "GET /depot/%s/chunk/abc HTTP/1.1" 200 %d "-" "-" "HIT" "cache.local" "-"`,
		clientID, depot, byteCount)
}

// batchCollector gathers dispatched batches so tests can wait for them.
type batchCollector struct {
	mu      sync.Mutex
	batches [][]*models.ParsedRecord
	signal  chan struct{}
}

func newBatchCollector() *batchCollector {
	return &batchCollector{signal: make(chan struct{}, 16)}
}

func (c *batchCollector) collect(_ context.Context, records []*models.ParsedRecord) {
	c.mu.Lock()
	c.batches = append(c.batches, records)
	c.mu.Unlock()
	c.signal <- struct{}{}
}

func (c *batchCollector) waitForBatch(t *testing.T) []*models.ParsedRecord {
	t.Helper()
	select {
	case <-c.signal:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a dispatched batch")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches[len(c.batches)-1]
}

func (c *batchCollector) totalRecords() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, batch := range c.batches {
		total += len(batch)
	}
	return total
}

func TestPipeline_SizeTriggerFlushesFullBatch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	collector := newBatchCollector()
	processor := mocks.NewMockAggregationService(ctrl)
	processor.EXPECT().
		ProcessBatch(gomock.Any(), gomock.Any()).
		Do(collector.collect).
		Times(1)

	pipeline := ingestors.NewPipeline(pipelineConfig(100, 3), processor, zerolog.Nop())
	pipeline.Start(context.Background())

	for i := 0; i < 3; i++ {
		require.True(t, pipeline.Submit(cacheLine("10.0.0.1", "228980", 1024)))
	}

	batch := collector.waitForBatch(t)
	require.Len(t, batch, 3)
	assert.Equal(t, "10.0.0.1", batch[0].ClientID)
	assert.Equal(t, "228980", batch[0].ContentUnit)
	assert.Equal(t, int64(1024), batch[0].ByteCount)

	require.NoError(t, pipeline.Shutdown(context.Background()))
}

func TestPipeline_TimeTriggerFlushesPartialBatch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	collector := newBatchCollector()
	processor := mocks.NewMockAggregationService(ctrl)
	processor.EXPECT().
		ProcessBatch(gomock.Any(), gomock.Any()).
		Do(collector.collect).
		Times(1)

	cfg := pipelineConfig(100, 1000)
	cfg.BatchTimeoutSeconds = 1
	pipeline := ingestors.NewPipeline(cfg, processor, zerolog.Nop())
	pipeline.Start(context.Background())

	require.True(t, pipeline.Submit(cacheLine("10.0.0.1", "228980", 2048)))
	require.True(t, pipeline.Submit(cacheLine("10.0.0.2", "440", 4096)))

	batch := collector.waitForBatch(t)
	require.Len(t, batch, 2)
	clientIDs := []string{batch[0].ClientID, batch[1].ClientID}
	assert.ElementsMatch(t, []string{"10.0.0.1", "10.0.0.2"}, clientIDs)

	require.NoError(t, pipeline.Shutdown(context.Background()))
}

func TestPipeline_ShutdownFlushesBufferedRecords(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	collector := newBatchCollector()
	processor := mocks.NewMockAggregationService(ctrl)
	processor.EXPECT().
		ProcessBatch(gomock.Any(), gomock.Any()).
		Do(collector.collect).
		Times(1)

	// Batch size far above the submitted count: only shutdown can flush.
	pipeline := ingestors.NewPipeline(pipelineConfig(100, 5000), processor, zerolog.Nop())
	pipeline.Start(context.Background())

	for i := 0; i < 32; i++ {
		require.True(t, pipeline.Submit(cacheLine("10.0.0.1", "228980", 1024)))
	}

	require.NoError(t, pipeline.Shutdown(context.Background()))

	batch := collector.waitForBatch(t)
	assert.Len(t, batch, 32, "every accepted record reaches the engine on shutdown")
}

func TestPipeline_ShutdownWithTimerActiveLosesNothing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	collector := newBatchCollector()
	processor := mocks.NewMockAggregationService(ctrl)
	processor.EXPECT().
		ProcessBatch(gomock.Any(), gomock.Any()).
		Do(collector.collect).
		AnyTimes()

	cfg := pipelineConfig(100, 1000)
	cfg.BatchTimeoutSeconds = 1
	pipeline := ingestors.NewPipeline(cfg, processor, zerolog.Nop())
	pipeline.Start(context.Background())

	for i := 0; i < 3; i++ {
		require.True(t, pipeline.Submit(cacheLine("10.0.0.1", "228980", 1024)))
	}
	collector.waitForBatch(t)

	// Records buffered right before shutdown race the next timer tick; the
	// shutdown flush and the tick must not split or drop them.
	for i := 0; i < 4; i++ {
		require.True(t, pipeline.Submit(cacheLine("10.0.0.2", "440", 2048)))
	}
	require.NoError(t, pipeline.Shutdown(context.Background()))

	assert.Equal(t, 7, collector.totalRecords())
}

func TestPipeline_MalformedAndZeroByteLinesNeverReachEngine(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	collector := newBatchCollector()
	processor := mocks.NewMockAggregationService(ctrl)
	processor.EXPECT().
		ProcessBatch(gomock.Any(), gomock.Any()).
		Do(collector.collect).
		Times(1)

	pipeline := ingestors.NewPipeline(pipelineConfig(100, 5000), processor, zerolog.Nop())
	pipeline.Start(context.Background())

	require.True(t, pipeline.Submit("not a log line at all"))
	require.True(t, pipeline.Submit(`[127.0.0.1] 127.0.0.1 / - - - [10/Jan/2024:16:28:34 -0600] "GET /lancache-heartbeat HTTP/1.1" 204 0 "-" "-" "-" "127.0.0.1" "-"`))
	require.True(t, pipeline.Submit(cacheLine("10.0.0.1", "228980", 1024)))

	require.NoError(t, pipeline.Shutdown(context.Background()))

	batch := collector.waitForBatch(t)
	require.Len(t, batch, 1)
	assert.Equal(t, "10.0.0.1", batch[0].ClientID)
}

func TestPipeline_SubmitAfterShutdownIsRejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	processor := mocks.NewMockAggregationService(ctrl)
	pipeline := ingestors.NewPipeline(pipelineConfig(10, 10), processor, zerolog.Nop())
	pipeline.Start(context.Background())

	require.NoError(t, pipeline.Shutdown(context.Background()))
	assert.False(t, pipeline.Submit(cacheLine("10.0.0.1", "228980", 1024)))
}

func TestPipeline_StatsReflectConfiguration(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	processor := mocks.NewMockAggregationService(ctrl)
	cfg := pipelineConfig(250, 10)
	cfg.ConsumerCount = 3
	cfg.ParserCount = 4
	cfg.ThroughputMode = true
	pipeline := ingestors.NewPipeline(cfg, processor, zerolog.Nop())

	stats := pipeline.Stats()
	assert.Equal(t, 250, stats.Capacity)
	assert.Equal(t, 3, stats.ActiveConsumers)
	assert.Equal(t, 4, stats.ActiveParsers)
	assert.True(t, stats.ThroughputMode)
	assert.Equal(t, 0, stats.RawQueueDepth)
	assert.Equal(t, 0, stats.ParsedQueueDepth)
	assert.Equal(t, 0, stats.BufferedCount)
}
