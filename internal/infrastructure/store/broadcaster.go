package store

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// loader reads a full collection for a snapshot
type loader func(ctx context.Context, collection string) (map[string]json.RawMessage, error)

// broadcaster fans change signals out to collection subscribers.
// Each subscription owns a one-slot signal channel; a pending signal
// absorbs further ones, so writers never block and the subscriber
// reloads the newest state once it catches up.
type broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	load   loader
	logger *zap.Logger
}

func newBroadcaster(load loader, logger *zap.Logger) *broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &broadcaster{
		subs:   make(map[string]map[*subscription]struct{}),
		load:   load,
		logger: logger,
	}
}

type subscription struct {
	b          *broadcaster
	collection string
	fn         func(Snapshot)
	signal     chan struct{}
	done       chan struct{}
	once       sync.Once
}

func (b *broadcaster) subscribe(ctx context.Context, collection string, fn func(Snapshot)) (Subscription, error) {
	if err := ValidateCollectionPath(collection); err != nil {
		return nil, wrap("subscribe", collection, err)
	}
	sub := &subscription{
		b:          b,
		collection: collection,
		fn:         fn,
		signal:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}

	b.mu.Lock()
	if b.subs[collection] == nil {
		b.subs[collection] = make(map[*subscription]struct{})
	}
	b.subs[collection][sub] = struct{}{}
	b.mu.Unlock()

	sub.signal <- struct{}{}
	go sub.run(ctx)
	return sub, nil
}

func (s *subscription) run(ctx context.Context) {
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			s.Close()
			return
		case <-s.signal:
			docs, err := s.b.load(ctx, s.collection)
			select {
			case <-s.done:
				return
			default:
			}
			s.deliver(Snapshot{Collection: s.collection, Documents: docs, Err: err})
		}
	}
}

func (s *subscription) deliver(snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.b.logger.Error("Panic in snapshot subscriber",
				zap.String("collection", s.collection),
				zap.Any("panic", r))
		}
	}()
	s.fn(snap)
}

// Close stops delivery; it is safe to call more than once
func (s *subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		s.b.remove(s)
	})
}

func (b *broadcaster) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[s.collection]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(b.subs, s.collection)
		}
	}
}

// notify signals subscribers of the given collections
func (b *broadcaster) notify(collections ...string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range collections {
		for sub := range b.subs[c] {
			select {
			case sub.signal <- struct{}{}:
			default:
			}
		}
	}
}

// notifyBeneath signals subscribers of collections nested under a document
func (b *broadcaster) notifyBeneath(doc string) {
	b.mu.RLock()
	var nested []string
	for c := range b.subs {
		if isBeneath(c, doc) {
			nested = append(nested, c)
		}
	}
	b.mu.RUnlock()
	b.notify(nested...)
}

// notifyOps signals every collection a batch of ops touched
func (b *broadcaster) notifyOps(ops []Op) {
	b.notify(touchedCollections(ops)...)
	for _, op := range ops {
		if op.Kind == OpDelete {
			b.notifyBeneath(op.Path)
		}
	}
}

func (b *broadcaster) closeAll() {
	b.mu.RLock()
	var all []*subscription
	for _, set := range b.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	b.mu.RUnlock()
	for _, sub := range all {
		sub.Close()
	}
}

func (b *broadcaster) count(collection string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[collection])
}
