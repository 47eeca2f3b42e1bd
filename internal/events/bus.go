// Package events is an in-process publish/subscribe bus owned by the
// application. Subscribers receive events on a buffered channel; a full
// subscriber misses the event instead of blocking the publisher.
package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Topic string

const (
	TopicLogout           Topic = "logout"
	TopicUnauthorized     Topic = "unauthorized"
	TopicRecorridoRenamed Topic = "recorrido.renamed"
	TopicRecorridoStatus  Topic = "recorrido.status"
)

type Event struct {
	Topic       Topic
	UserID      int
	Token       string
	RecorridoID int
	Name        string
	Estado      string
	At          time.Time
}

const DefaultBufferSize = 16

type Bus struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	closed  bool
	buffer  int
	dropped atomic.Int64
	logger  *slog.Logger
	drops   metric.Int64Counter
}

func NewBus(buffer int, logger *slog.Logger) *Bus {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}

	drops, err := otel.Meter("github.com/enoturismo/recorridos/internal/events").
		Int64Counter("events.dropped", metric.WithDescription("Events not delivered to a full subscriber"))
	if err != nil {
		logger.Warn("failed to create events.dropped counter", "error", err)
	}

	return &Bus{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
		drops:  drops,
	}
}

type Subscription struct {
	C <-chan Event

	ch     chan Event
	topics map[Topic]struct{}
	bus    *Bus
	once   sync.Once
}

// Subscribe registers for the given topics, or for every topic when none are
// passed. Subscribing to a closed bus returns an already closed subscription.
func (b *Bus) Subscribe(topics ...Topic) *Subscription {
	ch := make(chan Event, b.buffer)
	sub := &Subscription{
		C:      ch,
		ch:     ch,
		topics: make(map[Topic]struct{}, len(topics)),
		bus:    b,
	}

	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub.once.Do(func() { close(ch) })
		return sub
	}

	b.subs[sub] = struct{}{}

	return sub
}

func (s *Subscription) wants(t Topic) bool {
	if len(s.topics) == 0 {
		return true
	}

	_, ok := s.topics[t]
	return ok
}

// Close unregisters the subscription and closes its channel. It is safe to
// call more than once.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	delete(s.bus.subs, s)
	s.once.Do(func() { close(s.ch) })
}

// Publish delivers e to every matching subscriber without blocking.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for sub := range b.subs {
		if !sub.wants(e.Topic) {
			continue
		}

		select {
		case sub.ch <- e:
		default:
			b.dropped.Add(1)
			if b.drops != nil {
				b.drops.Add(context.Background(), 1, metric.WithAttributes(attribute.String("topic", string(e.Topic))))
			}
			b.logger.Warn("dropping event for slow subscriber", "topic", e.Topic)
		}
	}
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for sub := range b.subs {
		delete(b.subs, sub)
		sub.once.Do(func() { close(sub.ch) })
	}
}
