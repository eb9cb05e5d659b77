package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// MemoryGateway keeps documents in process. It is not durable.
type MemoryGateway struct {
	mu    sync.RWMutex
	tree  map[string]map[string]json.RawMessage
	bcast *broadcaster
}

// NewMemoryGateway creates an empty in-memory gateway
func NewMemoryGateway(logger *zap.Logger) *MemoryGateway {
	g := &MemoryGateway{tree: make(map[string]map[string]json.RawMessage)}
	g.bcast = newBroadcaster(g.List, logger)
	return g
}

// Get implements Reader
func (g *MemoryGateway) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if err := ValidateDocumentPath(path); err != nil {
		return nil, wrap("get", path, err)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	doc, ok := g.tree[Parent(path)][Base(path)]
	if !ok {
		return nil, wrap("get", path, ErrNotFound)
	}
	return clone(doc), nil
}

// List implements Reader
func (g *MemoryGateway) List(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	if err := ValidateCollectionPath(collection); err != nil {
		return nil, wrap("list", collection, err)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	docs := g.tree[collection]
	out := make(map[string]json.RawMessage, len(docs))
	for id, doc := range docs {
		out[id] = clone(doc)
	}
	return out, nil
}

// Set implements Writer
func (g *MemoryGateway) Set(ctx context.Context, path string, value any) error {
	op, err := SetOp(path, value)
	if err != nil {
		return err
	}
	return g.apply("set", path, []Op{op})
}

// Merge implements Writer
func (g *MemoryGateway) Merge(ctx context.Context, path string, fields map[string]any) error {
	op, err := MergeOp(path, fields)
	if err != nil {
		return err
	}
	return g.apply("merge", path, []Op{op})
}

// Delete implements Writer
func (g *MemoryGateway) Delete(ctx context.Context, path string) error {
	return g.apply("delete", path, []Op{DeleteOp(path)})
}

// Commit implements Gateway
func (g *MemoryGateway) Commit(ctx context.Context, ops []Op) error {
	if len(ops) == 0 {
		return nil
	}
	return g.apply("commit", "", ops)
}

// Subscribe implements Gateway
func (g *MemoryGateway) Subscribe(ctx context.Context, collection string, fn func(Snapshot)) (Subscription, error) {
	return g.bcast.subscribe(ctx, collection, fn)
}

// Ping implements Gateway
func (g *MemoryGateway) Ping(ctx context.Context) error {
	return nil
}

// Close implements Gateway
func (g *MemoryGateway) Close() error {
	g.bcast.closeAll()
	return nil
}

// Len returns the number of documents in a collection
func (g *MemoryGateway) Len(collection string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.tree[collection])
}

type undoEntry struct {
	collection string
	id         string
	prev       json.RawMessage
	existed    bool
}

func (g *MemoryGateway) apply(opName, path string, ops []Op) error {
	if err := validateOps(ops); err != nil {
		return err
	}

	g.mu.Lock()
	var undo []undoEntry
	for _, op := range ops {
		if err := g.applyOne(op, &undo); err != nil {
			g.rollback(undo)
			g.mu.Unlock()
			if opName == "commit" {
				return wrap(opName, op.Path, err)
			}
			return wrap(opName, path, err)
		}
	}
	g.mu.Unlock()

	g.bcast.notifyOps(ops)
	return nil
}

func (g *MemoryGateway) applyOne(op Op, undo *[]undoEntry) error {
	collection, id := Parent(op.Path), Base(op.Path)
	prev, existed := g.tree[collection][id]

	switch op.Kind {
	case OpSet:
		*undo = append(*undo, undoEntry{collection, id, prev, existed})
		g.put(collection, id, clone(op.Data))
	case OpMerge:
		if !existed {
			return ErrNotFound
		}
		merged, err := mergeDocument(prev, op.Fields)
		if err != nil {
			return err
		}
		*undo = append(*undo, undoEntry{collection, id, prev, existed})
		g.put(collection, id, merged)
	case OpDelete:
		if existed {
			*undo = append(*undo, undoEntry{collection, id, prev, true})
			delete(g.tree[collection], id)
		}
		prefix := op.Path + "/"
		for c, docs := range g.tree {
			if !strings.HasPrefix(c, prefix) {
				continue
			}
			for childID, doc := range docs {
				*undo = append(*undo, undoEntry{c, childID, doc, true})
			}
			delete(g.tree, c)
		}
	}
	return nil
}

func (g *MemoryGateway) put(collection, id string, doc json.RawMessage) {
	if g.tree[collection] == nil {
		g.tree[collection] = make(map[string]json.RawMessage)
	}
	g.tree[collection][id] = doc
}

func (g *MemoryGateway) rollback(undo []undoEntry) {
	for i := len(undo) - 1; i >= 0; i-- {
		u := undo[i]
		if u.existed {
			g.put(u.collection, u.id, u.prev)
			continue
		}
		delete(g.tree[u.collection], u.id)
	}
}

func clone(doc json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(doc))
	copy(out, doc)
	return out
}
