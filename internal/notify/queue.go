package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultQueueDepth = 64
	deliverTimeout    = 10 * time.Second
)

// Queue is a bounded asynchronous publisher. Publish enqueues the event and
// returns immediately; a single worker delivers through the configured Sink.
// A full queue drops the event and counts it in formd_notify_dropped_total.
type Queue struct {
	mu      sync.Mutex
	ch      chan Event
	closed  bool
	started bool

	sink Sink
	log  zerolog.Logger
	done chan struct{}
}

var _ Publisher = (*Queue)(nil)

// NewQueue builds a queue over sink. depth <= 0 selects the default depth.
// The worker does not run until Start is called.
func NewQueue(sink Sink, depth int, log zerolog.Logger) *Queue {
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	return &Queue{
		ch:   make(chan Event, depth),
		sink: sink,
		log:  log,
		done: make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (q *Queue) Start() {
	q.mu.Lock()
	if q.started || q.closed {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	go q.run()
}

func (q *Queue) run() {
	defer close(q.done)
	for ev := range q.ch {
		queueDepth.Dec()
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		err := q.sink.Deliver(ctx, ev)
		cancel()
		if err != nil {
			q.log.Error().Err(err).Str("kind", ev.Kind).Msg("notify delivery failed")
			continue
		}
		deliveredTotal.WithLabelValues(ev.Kind).Inc()
	}
}

// Publish enqueues ev without blocking. Events published after Stop, or while
// the queue is full, are dropped.
func (q *Queue) Publish(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		droppedTotal.Inc()
		return
	}
	select {
	case q.ch <- ev:
		queueDepth.Inc()
	default:
		droppedTotal.Inc()
		q.log.Warn().Str("kind", ev.Kind).Msg("notify queue full, event dropped")
	}
}

// Stop closes the queue and waits for the worker to drain pending events.
// Safe to call more than once.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		started := q.started
		q.mu.Unlock()
		if started {
			<-q.done
		}
		return
	}
	q.closed = true
	started := q.started
	close(q.ch)
	q.mu.Unlock()

	if started {
		<-q.done
	}
}
