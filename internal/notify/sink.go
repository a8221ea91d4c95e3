package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// LogSink writes notifications to the service log. It is the fallback when no
// LINE owner is configured.
type LogSink struct {
	Log zerolog.Logger
}

var _ Sink = LogSink{}

func (s LogSink) Deliver(_ context.Context, ev Event) error {
	s.Log.Info().
		Str("kind", ev.Kind).
		Str("title", ev.Title).
		Str("body", ev.Body).
		Msg("owner notification")
	return nil
}

// Memory records published events for tests.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

var _ Publisher = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Publish(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Events returns a copy of everything published so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// MemorySink records delivered events for queue tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

var _ Sink = (*MemorySink)(nil)

func NewMemorySink() *MemorySink { return &MemorySink{} }

// Fail makes every subsequent Deliver return err.
func (m *MemorySink) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemorySink) Deliver(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
