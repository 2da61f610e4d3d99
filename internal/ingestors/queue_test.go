package ingestors_test

import (
	"fmt"
	"testing"

	"download-analytics/internal/ingestors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvictOldestQueue_RetainsNewestAtCapacity(t *testing.T) {
	t.Parallel()

	var evicted int
	queue := ingestors.NewEvictOldestQueue[string](10, func() { evicted++ })

	for i := 0; i < 15; i++ {
		require.True(t, queue.Submit(fmt.Sprintf("line-%d", i)))
	}

	assert.Equal(t, 10, queue.Depth())
	assert.Equal(t, 5, evicted)

	// The five oldest lines were displaced; lines 5..14 survive in order.
	for i := 5; i < 15; i++ {
		item, ok := queue.Dequeue()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("line-%d", i), item)
	}
}

func TestEvictOldestQueue_SubmitNeverBlocks(t *testing.T) {
	t.Parallel()

	queue := ingestors.NewEvictOldestQueue[int](1, nil)

	// Each submit beyond capacity displaces the previous item synchronously.
	for i := 0; i < 100; i++ {
		require.True(t, queue.Submit(i))
	}

	item, ok := queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 99, item)
}

func TestBlockingQueue_NoLossUpToCapacity(t *testing.T) {
	t.Parallel()

	queue := ingestors.NewBlockingQueue[int](5)
	for i := 0; i < 5; i++ {
		require.True(t, queue.Submit(i))
	}
	assert.Equal(t, 5, queue.Depth())

	for i := 0; i < 5; i++ {
		item, ok := queue.Dequeue()
		require.True(t, ok)
		assert.Equal(t, i, item)
	}
}

func TestBlockingQueue_SubmitUnblocksOnConsume(t *testing.T) {
	t.Parallel()

	queue := ingestors.NewBlockingQueue[int](1)
	require.True(t, queue.Submit(1))

	accepted := make(chan bool)
	go func() { accepted <- queue.Submit(2) }()

	item, ok := queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 1, item)

	assert.True(t, <-accepted)
}

func TestQueue_CloseDrainsRemainingItems(t *testing.T) {
	t.Parallel()

	queue := ingestors.NewBlockingQueue[int](5)
	require.True(t, queue.Submit(1))
	require.True(t, queue.Submit(2))

	queue.Close()

	assert.False(t, queue.Submit(3), "submit after close is rejected")

	item, ok := queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 1, item)

	item, ok = queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 2, item)

	_, ok = queue.Dequeue()
	assert.False(t, ok, "drained closed queue reports done")
}

func TestQueue_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	queue := ingestors.NewEvictOldestQueue[int](1, nil)
	queue.Close()
	queue.Close()

	_, ok := queue.Dequeue()
	assert.False(t, ok)
}
