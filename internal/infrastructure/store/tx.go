package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrTxDone is returned when a committed transaction is used again
var ErrTxDone = errors.New("transaction already committed")

// Tx buffers writes on top of a gateway and applies them with a single
// Commit. Reads see the buffered writes.
type Tx struct {
	base Gateway

	mu      sync.Mutex
	ops     []Op
	overlay map[string]json.RawMessage // nil value marks a deleted document
	deleted []string                   // documents whose subtrees were removed
	done    bool
}

// Begin starts a transaction on g
func Begin(g Gateway) *Tx {
	return &Tx{base: g, overlay: make(map[string]json.RawMessage)}
}

// Get implements Reader
func (t *Tx) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if err := ValidateDocumentPath(path); err != nil {
		return nil, wrap("get", path, err)
	}
	t.mu.Lock()
	doc, ok := t.overlay[path]
	hidden := t.hiddenLocked(path)
	t.mu.Unlock()

	if ok {
		if doc == nil {
			return nil, wrap("get", path, ErrNotFound)
		}
		return clone(doc), nil
	}
	if hidden {
		return nil, wrap("get", path, ErrNotFound)
	}
	return t.base.Get(ctx, path)
}

// List implements Reader
func (t *Tx) List(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	if err := ValidateCollectionPath(collection); err != nil {
		return nil, wrap("list", collection, err)
	}
	t.mu.Lock()
	hidden := t.hiddenLocked(collection)
	t.mu.Unlock()

	out := map[string]json.RawMessage{}
	if !hidden {
		docs, err := t.base.List(ctx, collection)
		if err != nil {
			return nil, err
		}
		out = docs
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for path, doc := range t.overlay {
		if Parent(path) != collection {
			continue
		}
		if doc == nil {
			delete(out, Base(path))
			continue
		}
		out[Base(path)] = clone(doc)
	}
	return out, nil
}

// Set implements Writer
func (t *Tx) Set(ctx context.Context, path string, value any) error {
	op, err := SetOp(path, value)
	if err != nil {
		return err
	}
	if err := ValidateDocumentPath(path); err != nil {
		return wrap("set", path, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return wrap("set", path, ErrTxDone)
	}
	t.overlay[path] = op.Data
	t.ops = append(t.ops, op)
	return nil
}

// Merge implements Writer
func (t *Tx) Merge(ctx context.Context, path string, fields map[string]any) error {
	op, err := MergeOp(path, fields)
	if err != nil {
		return err
	}
	current, err := t.Get(ctx, path)
	if err != nil {
		return wrap("merge", path, err)
	}
	merged, err := mergeDocument(current, op.Fields)
	if err != nil {
		return wrap("merge", path, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return wrap("merge", path, ErrTxDone)
	}
	t.overlay[path] = merged
	t.ops = append(t.ops, op)
	return nil
}

// Delete implements Writer
func (t *Tx) Delete(ctx context.Context, path string) error {
	if err := ValidateDocumentPath(path); err != nil {
		return wrap("delete", path, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return wrap("delete", path, ErrTxDone)
	}
	prefix := path + "/"
	for p := range t.overlay {
		if strings.HasPrefix(p, prefix) {
			delete(t.overlay, p)
		}
	}
	t.overlay[path] = nil
	t.deleted = append(t.deleted, path)
	t.ops = append(t.ops, DeleteOp(path))
	return nil
}

// Ops returns the buffered writes in order
func (t *Tx) Ops() []Op {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Op, len(t.ops))
	copy(out, t.ops)
	return out
}

// Paths returns the distinct document paths written so far
func (t *Tx) Paths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.overlay))
	for p := range t.overlay {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Commit applies the buffered writes atomically
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return wrap("commit", "", ErrTxDone)
	}
	t.done = true
	ops := t.ops
	t.mu.Unlock()

	return t.base.Commit(ctx, ops)
}

// hiddenLocked reports whether path sits beneath a document deleted in
// this transaction and was not written again afterwards
func (t *Tx) hiddenLocked(path string) bool {
	for _, d := range t.deleted {
		if strings.HasPrefix(path, d+"/") {
			return true
		}
	}
	return false
}
