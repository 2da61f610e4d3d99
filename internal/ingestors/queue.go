package ingestors

import "sync"

// BoundedQueue is a fixed-capacity buffer between pipeline stages. The two
// implementations are interchangeable fill strategies selected at
// construction: blocking (throughput mode, no loss) and evict-oldest
// (normal mode, no producer latency).
type BoundedQueue[T any] interface {
	// Submit offers an item and reports whether it was accepted. Rejection
	// only happens on a closed queue.
	Submit(item T) bool
	// Dequeue blocks until an item is available. ok is false once the queue
	// is closed and fully drained.
	Dequeue() (item T, ok bool)
	// Depth is the approximate number of queued items.
	Depth() int
	// Close stops intake. Items already queued remain dequeueable.
	Close()
}

type queueCore[T any] struct {
	ch        chan T
	done      chan struct{}
	closeOnce sync.Once
}

func newQueueCore[T any](capacity int) queueCore[T] {
	return queueCore[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
	}
}

func (q *queueCore[T]) Dequeue() (T, bool) {
	select {
	case item := <-q.ch:
		return item, true
	case <-q.done:
		// Drain whatever was queued before the close.
		select {
		case item := <-q.ch:
			return item, true
		default:
			var zero T
			return zero, false
		}
	}
}

func (q *queueCore[T]) Depth() int { return len(q.ch) }

func (q *queueCore[T]) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

type blockingQueue[T any] struct {
	queueCore[T]
}

// NewBlockingQueue returns the throughput-mode queue: Submit suspends the
// caller until space is available, so no item is ever lost to capacity.
func NewBlockingQueue[T any](capacity int) BoundedQueue[T] {
	return &blockingQueue[T]{queueCore: newQueueCore[T](capacity)}
}

func (q *blockingQueue[T]) Submit(item T) bool {
	select {
	case <-q.done:
		return false
	default:
	}

	select {
	case q.ch <- item:
		return true
	case <-q.done:
		return false
	}
}

type evictOldestQueue[T any] struct {
	queueCore[T]
	onEvict func()
}

// NewEvictOldestQueue returns the normal-mode queue: Submit never suspends;
// when full, the oldest queued item is evicted to make room and the new item
// is always accepted. onEvict (optional) observes each eviction.
func NewEvictOldestQueue[T any](capacity int, onEvict func()) BoundedQueue[T] {
	return &evictOldestQueue[T]{queueCore: newQueueCore[T](capacity), onEvict: onEvict}
}

func (q *evictOldestQueue[T]) Submit(item T) bool {
	for {
		select {
		case <-q.done:
			return false
		default:
		}

		select {
		case q.ch <- item:
			return true
		default:
		}

		// Full: drop the oldest queued item and retry. A concurrent consumer
		// may win the race for it, in which case nothing is lost.
		select {
		case <-q.ch:
			if q.onEvict != nil {
				q.onEvict()
			}
		default:
		}
	}
}
