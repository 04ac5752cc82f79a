package queue

import (
	"sync"

	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/metrics"
)

// defaultCapacity is the initial backing capacity; the queue grows past it freely.
const defaultCapacity = 8

// EventQueue is an unbounded FIFO of lifecycle events with a coalescing drain.
type EventQueue struct {
	// events holds queued events, oldest first.
	events []domain.Event
	// mu protects events.
	mu sync.Mutex
}

// New creates an empty queue.
func New() *EventQueue {
	return &EventQueue{
		events: make([]domain.Event, 0, defaultCapacity),
	}
}

// Push appends event to the tail. It never blocks on capacity.
func (q *EventQueue) Push(event domain.Event) {
	q.mu.Lock()
	q.events = append(q.events, event)
	depth := len(q.events)
	q.mu.Unlock()

	metrics.EventsPushed.WithLabelValues(event.String()).Inc()
	metrics.QueueDepth.Set(float64(depth))
}

// DrainAll returns the oldest queued event and clears the queue.
// The boolean is false when nothing was queued.
func (q *EventQueue) DrainAll() (domain.Event, bool) {
	q.mu.Lock()

	if len(q.events) == 0 {
		q.mu.Unlock()

		return 0, false
	}

	event := q.events[0]
	dropped := len(q.events) - 1

	clear(q.events)
	q.events = q.events[:0]
	q.mu.Unlock()

	if dropped > 0 {
		metrics.EventsCoalesced.Add(float64(dropped))
	}

	metrics.QueueDepth.Set(0)

	return event, true
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.events)
}
