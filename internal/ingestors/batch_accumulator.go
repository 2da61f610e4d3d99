package ingestors

import (
	"sync"

	"download-analytics/internal/models"
)

// BatchAccumulator is the shared buffer that groups parsed records into
// batches. It is the only pipeline state mutated by multiple workers
// directly; the single mutex is held only to append or to swap the slice
// header, never while a batch is processed.
type BatchAccumulator struct {
	mu   sync.Mutex
	buf  []*models.ParsedRecord
	size int
}

func NewBatchAccumulator(batchSize int) *BatchAccumulator {
	return &BatchAccumulator{
		buf:  make([]*models.ParsedRecord, 0, batchSize),
		size: batchSize,
	}
}

// Append adds one record. The append that fills the buffer to the batch size
// atomically snapshots and clears it, returning the batch; otherwise nil.
func (a *BatchAccumulator) Append(record *models.ParsedRecord) []*models.ParsedRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buf = append(a.buf, record)
	if len(a.buf) >= a.size {
		return a.swap()
	}
	return nil
}

// Drain snapshots and clears the buffer regardless of size, returning nil
// when empty. Used by the time trigger and the final shutdown flush.
func (a *BatchAccumulator) Drain() []*models.ParsedRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.swap()
}

// Len is the current number of buffered records.
func (a *BatchAccumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buf)
}

func (a *BatchAccumulator) swap() []*models.ParsedRecord {
	if len(a.buf) == 0 {
		return nil
	}
	batch := a.buf
	a.buf = make([]*models.ParsedRecord, 0, a.size)
	return batch
}
