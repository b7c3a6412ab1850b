// Package queue implements the capacity-bounded, blocking, order-preserving
// record handoff used between adjacent pipeline stages.
package queue

import (
	"sync"

	"github.com/relaylab/strpipe/internal/syncutil"
	"golang.org/x/xerrors"
)

// Queue is a capacity-bounded circular buffer of strings. Submit blocks
// while the queue is full; Dequeue blocks while it is empty. It is safe for
// concurrent use, though the pipeline only ever drives each Queue with a
// single submitter and a single consumer.
type Queue struct {
	mu       sync.Mutex
	items    []string
	capacity int
	head     int
	tail     int
	count    int

	notFull  *syncutil.Monitor
	notEmpty *syncutil.Monitor
	finished *syncutil.Monitor
}

// New allocates a Queue with room for capacity records. capacity must be
// positive.
func New(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, xerrors.New("invalid queue capacity")
	}

	q := &Queue{
		items:    make([]string, capacity),
		capacity: capacity,
		notFull:  syncutil.New(),
		notEmpty: syncutil.New(),
		finished: syncutil.New(),
	}
	// The queue starts empty, so producers must never block on the first
	// submission.
	q.notFull.Signal()
	return q, nil
}

// Submit inserts item at the tail of the queue, blocking while the queue is
// full.
func (q *Queue) Submit(item string) error {
	for {
		q.mu.Lock()
		if q.count < q.capacity {
			q.items[q.tail] = item
			q.tail = (q.tail + 1) % q.capacity
			q.count++
			q.notEmpty.Signal()
			full := q.count == q.capacity
			q.mu.Unlock()

			if full {
				q.notFull.Reset()
			}
			return nil
		}
		q.mu.Unlock()

		q.notFull.Wait()
		// Loop and recheck: a concurrent producer may have already
		// taken the slot we were woken for.
	}
}

// Dequeue removes and returns the record at the head of the queue, blocking
// while the queue is empty.
func (q *Queue) Dequeue() string {
	for {
		q.mu.Lock()
		if q.count > 0 {
			item := q.items[q.head]
			q.items[q.head] = ""
			q.head = (q.head + 1) % q.capacity
			q.count--
			q.notFull.Signal()
			empty := q.count == 0
			q.mu.Unlock()

			if empty {
				q.notEmpty.Reset()
			}
			return item
		}
		q.mu.Unlock()

		q.notEmpty.Wait()
	}
}

// SignalFinished raises the finished signal; it is called by a stage's
// worker once it has forwarded the end-of-stream sentinel.
func (q *Queue) SignalFinished() {
	q.finished.Signal()
}

// WaitFinished blocks until SignalFinished has been called.
func (q *Queue) WaitFinished() {
	q.finished.Wait()
}

// Close releases the queue's backing slots. Records in this implementation
// are plain strings with no separate allocation to free; Close exists to
// make the lifecycle explicit and symmetric with New, and to make any
// residual records eligible for garbage collection immediately rather than
// waiting for the Queue itself to become unreachable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.head, q.tail, q.count = 0, 0, 0
}
