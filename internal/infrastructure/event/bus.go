// Package event delivers domain events to in-process handlers after the
// write that raised them has been stored. Handler failures are logged and
// never reach the publisher.
package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultQueueSize = 1024

// InMemoryEventBus dispatches events to registered handlers. Before Start
// (and after Stop) delivery is synchronous; while running, events go through
// a queue drained by one worker so handlers see them in publish order.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	queue    chan envelope
	running  atomic.Bool
	mu       sync.Mutex
	wg       sync.WaitGroup
	dropped  atomic.Int64
}

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// Option configures the bus
type Option func(*InMemoryEventBus)

// WithQueueSize sets the capacity of the asynchronous queue
func WithQueueSize(n int) Option {
	return func(b *InMemoryEventBus) {
		if n > 0 {
			b.queue = make(chan envelope, n)
		}
	}
}

// NewInMemoryEventBus creates a new bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...Option) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger.Named("event_bus"),
		queue:    make(chan envelope, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands events to their handlers. It never returns handler errors.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	ctx = context.WithoutCancel(ctx)
	for _, e := range events {
		if b.enqueue(ctx, e) {
			continue
		}
		b.dispatch(ctx, e)
	}
	return nil
}

func (b *InMemoryEventBus) enqueue(ctx context.Context, e shared.DomainEvent) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running.Load() {
		return false
	}
	select {
	case b.queue <- envelope{ctx: ctx, event: e}:
	default:
		b.dropped.Add(1)
		b.logger.Warn("event queue full, dropping event",
			zap.String("event_type", e.EventType()),
			zap.String("event_id", e.EventID().String()))
	}
	return true
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, e shared.DomainEvent) {
	for _, h := range b.registry.Handlers(e.EventType()) {
		if err := b.dispatchToHandler(ctx, h, e); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", e.EventType()),
				zap.String("event_id", e.EventID().String()),
				zap.Error(err))
		}
	}
}

func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, h shared.EventHandler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", e.EventType()),
				zap.Any("panic", r))
		}
	}()
	return h.Handle(ctx, e)
}

// Subscribe registers a handler; with no explicit types the handler's own
// EventTypes are used
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start launches the dispatch worker
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running.Load() {
		return nil
	}
	b.running.Store(true)
	queue := b.queue
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for env := range queue {
			b.dispatch(env.ctx, env.event)
		}
	}()
	b.logger.Info("event bus started", zap.Int("handlers", b.registry.Len()))
	return nil
}

// Stop drains queued events and stops the worker
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running.Load() {
		b.mu.Unlock()
		return nil
	}
	b.running.Store(false)
	close(b.queue)
	b.queue = make(chan envelope, cap(b.queue))
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns how many events were discarded because the queue was full
func (b *InMemoryEventBus) Dropped() int64 {
	return b.dropped.Load()
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
