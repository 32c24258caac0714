package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/research-tracker/dashboard/internal/core/domain"
)

const channelBuffer = 64

// Handler consumes session events for one subscriber.
type Handler func(ctx context.Context, event domain.SessionEvent)

type subscriber struct {
	name    string
	handler Handler
	ch      chan domain.SessionEvent
}

// Dispatcher fans session events out to subscribers. Each subscriber has its
// own worker and channel, so events reach a subscriber in publish order and a
// slow subscriber does not hold up the others.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []*subscriber
	ctx         context.Context // set by Start; nil until then
	log         zerolog.Logger
}

// NewDispatcher creates an idle Dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{log: log.With().Str("component", "session_events").Logger()}
}

// Subscribe registers a handler. A subscriber added after Start gets its
// worker immediately and sees events published from then on.
func (d *Dispatcher) Subscribe(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &subscriber{
		name:    name,
		handler: h,
		ch:      make(chan domain.SessionEvent, channelBuffer),
	}
	d.subscribers = append(d.subscribers, s)
	if d.ctx != nil {
		go d.runWorker(d.ctx, s)
	}
}

// Start launches one worker per subscriber. Workers stop when ctx is
// cancelled; later calls are no-ops.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx != nil {
		return
	}
	d.ctx = ctx
	for _, s := range d.subscribers {
		go d.runWorker(ctx, s)
	}
}

// Publish enqueues event for every subscriber. While the dispatcher runs it
// waits for room in a full channel; before Start and after the start context
// ends, an event that does not fit is dropped and logged.
func (d *Dispatcher) Publish(event domain.SessionEvent) {
	d.mu.RLock()
	subs := append([]*subscriber(nil), d.subscribers...)
	ctx := d.ctx
	d.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.ch <- event:
			continue
		default:
		}
		if ctx == nil {
			d.drop(s, event, "dispatcher not started")
			continue
		}
		select {
		case s.ch <- event:
		case <-ctx.Done():
			d.drop(s, event, "dispatcher stopped")
		}
	}
}

func (d *Dispatcher) drop(s *subscriber, event domain.SessionEvent, reason string) {
	d.log.Warn().
		Str("subscriber", s.name).
		Str("event", string(event.Kind)).
		Str("reason", reason).
		Msg("session event dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, s *subscriber) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-s.ch:
			d.deliver(ctx, s, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, s *subscriber, event domain.SessionEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("subscriber", s.name).
				Str("event", string(event.Kind)).
				Msg("session event handler panicked")
		}
	}()
	s.handler(ctx, event)
}
