package ingest

import (
	"context"
	"errors"
	"sync"

	"go-yob/internal/logging"
	"go-yob/internal/metrics"
	"go-yob/internal/models"
)

var (
	ErrQueueClosed = errors.New("event queue closed")
	ErrQueueFull   = errors.New("event queue full")
)

// Handler processes one event to completion.
type Handler func(ctx context.Context, ev *models.ChangeEvent)

// Queue hands gateway events to a single consumer so they are handled one
// at a time, in arrival order.
type Queue struct {
	mu      sync.RWMutex
	events  chan *models.ChangeEvent
	closed  bool
	handler Handler
	metrics *metrics.MetricsRegistry
	done    chan struct{}
	started sync.Once
}

func NewQueue(size int, handler Handler, registry *metrics.MetricsRegistry) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		events:  make(chan *models.ChangeEvent, size),
		handler: handler,
		metrics: registry,
		done:    make(chan struct{}),
	}
}

// Enqueue never blocks the gateway; a full queue drops the event.
func (q *Queue) Enqueue(ev *models.ChangeEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.events <- ev:
		q.metrics.Inc(metrics.EventsReceived)
		if q.metrics != nil {
			q.metrics.GetIngressRate().Increment()
		}
		return nil
	default:
		q.metrics.Inc(metrics.EventsDropped)
		logging.WithFields(logging.Fields{
			"trace_id":   ev.TraceID,
			"kind":       ev.Kind.String(),
			"message_id": ev.MessageID,
		}).Warn("Event queue full, dropping event")
		return ErrQueueFull
	}
}

// Run consumes events until Close has been called and the queue is drained.
// Handlers receive ctx; cancelling it does not stop the drain.
func (q *Queue) Run(ctx context.Context) {
	q.started.Do(func() {
		defer close(q.done)
		for ev := range q.events {
			q.handle(ctx, ev)
		}
	})
}

func (q *Queue) handle(ctx context.Context, ev *models.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			logging.WithFields(logging.Fields{
				"trace_id": ev.TraceID,
				"kind":     ev.Kind.String(),
				"panic":    r,
			}).Error("Event handler panicked")
		}
	}()
	q.handler(ctx, ev)
}

// Close stops accepting events. Already queued events are still handled.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.events)
}

// Done is closed once Run has drained the queue.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

func (q *Queue) Len() int {
	return len(q.events)
}
