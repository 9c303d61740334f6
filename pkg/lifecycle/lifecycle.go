// Package lifecycle carries the created and modified notifications actions
// emit after a successful commit.
package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// EventType names the notification.
type EventType string

const (
	EventCreated  EventType = "created"
	EventModified EventType = "modified"
)

// Event reports a change to one object.
type Event struct {
	Type      EventType `json:"type"`
	Object    any       `json:"-"`
	Fields    []string  `json:"fields,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Created builds a created event.
func Created(obj any) Event {
	return Event{Type: EventCreated, Object: obj, Timestamp: time.Now()}
}

// Modified builds a modified event naming the written fields.
func Modified(obj any, fields ...string) Event {
	return Event{Type: EventModified, Object: obj, Fields: fields, Timestamp: time.Now()}
}

// Notifier receives events. Notifications are fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event Event)

func (fn NotifierFunc) Notify(ctx context.Context, event Event) { fn(ctx, event) }

// Nop discards every event.
var Nop Notifier = NotifierFunc(func(context.Context, Event) {})

// Dispatcher fans events out to subscribers synchronously, in subscription
// order.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []Notifier
	logger      *slog.Logger
}

var _ Notifier = (*Dispatcher)(nil)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger logs each dispatch at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher without subscribers.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe adds a subscriber.
func (d *Dispatcher) Subscribe(n Notifier) {
	if n == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, n)
}

// Notify delivers event to every subscriber.
func (d *Dispatcher) Notify(ctx context.Context, event Event) {
	d.mu.RLock()
	subscribers := append([]Notifier(nil), d.subscribers...)
	d.mu.RUnlock()

	d.logger.DebugContext(ctx, "lifecycle event",
		"type", string(event.Type),
		"fields", event.Fields,
		"subscribers", len(subscribers),
	)
	for _, n := range subscribers {
		n.Notify(ctx, event)
	}
}

// Recorder keeps every event it receives. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns the received events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
