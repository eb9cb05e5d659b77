// Package store provides a hierarchical JSON document store.
//
// Documents live at slash-separated paths with an even number of segments
// (inventory/{id}, inventory/{id}/batches/{batchId}); collections have an
// odd number. Three gateways share one contract: an in-process tree, a SQL
// table through gorm and Redis hashes. Every gateway pushes full-collection
// snapshots to subscribers after each change.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("document not found")

// Error is the error kind reported by every gateway operation
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Path: path, Err: err}
}

// IsNotFound reports whether err identifies a missing document
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Reader reads documents
type Reader interface {
	// Get returns the document at path or ErrNotFound
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// List returns the documents of a collection keyed by id.
	// An absent collection yields an empty map.
	List(ctx context.Context, collection string) (map[string]json.RawMessage, error)
}

// Writer mutates documents
type Writer interface {
	// Set replaces the document at path
	Set(ctx context.Context, path string, value any) error

	// Merge overwrites the given top-level fields of an existing document
	Merge(ctx context.Context, path string, fields map[string]any) error

	// Delete removes the document and every collection beneath it
	Delete(ctx context.Context, path string) error
}

// Store is the read/write surface repositories depend on
type Store interface {
	Reader
	Writer
}

// Gateway is a complete store backend
type Gateway interface {
	Store

	// Commit applies every op or none
	Commit(ctx context.Context, ops []Op) error

	// Subscribe delivers a snapshot of the collection now and after every
	// change beneath it. A slow subscriber only sees the latest snapshot.
	Subscribe(ctx context.Context, collection string, fn func(Snapshot)) (Subscription, error)

	Ping(ctx context.Context) error
	Close() error
}

// Snapshot is the full content of a collection at one point in time
type Snapshot struct {
	Collection string
	Documents  map[string]json.RawMessage
	Err        error
}

// Subscription stops snapshot delivery when closed
type Subscription interface {
	Close()
}

// OpKind is the kind of a batched write
type OpKind int

const (
	OpSet OpKind = iota + 1
	OpMerge
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpSet:
		return "set"
	case OpMerge:
		return "merge"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Op is a single write inside a Commit
type Op struct {
	Kind   OpKind
	Path   string
	Data   json.RawMessage
	Fields map[string]json.RawMessage
}

// SetOp builds a set op, encoding value immediately
func SetOp(path string, value any) (Op, error) {
	data, err := encode(value)
	if err != nil {
		return Op{}, wrap("set", path, err)
	}
	return Op{Kind: OpSet, Path: path, Data: data}, nil
}

// MergeOp builds a merge op, encoding each field immediately
func MergeOp(path string, fields map[string]any) (Op, error) {
	encoded, err := encodeFields(fields)
	if err != nil {
		return Op{}, wrap("merge", path, err)
	}
	return Op{Kind: OpMerge, Path: path, Fields: encoded}, nil
}

// DeleteOp builds a delete op
func DeleteOp(path string) Op {
	return Op{Kind: OpDelete, Path: path}
}

func encode(value any) (json.RawMessage, error) {
	if raw, ok := value.(json.RawMessage); ok {
		return raw, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func encodeFields(fields map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		data, err := encode(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		out[k] = data
	}
	return out, nil
}

// mergeDocument overlays fields on an encoded JSON object
func mergeDocument(doc json.RawMessage, fields map[string]json.RawMessage) (json.RawMessage, error) {
	obj := map[string]json.RawMessage{}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &obj); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	}
	for k, v := range fields {
		obj[k] = v
	}
	return json.Marshal(obj)
}

// Decode unmarshals a document into out
func Decode(doc json.RawMessage, out any) error {
	if err := json.Unmarshal(doc, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// validateOps checks every path before anything is applied
func validateOps(ops []Op) error {
	for _, op := range ops {
		if err := ValidateDocumentPath(op.Path); err != nil {
			return wrap(op.Kind.String(), op.Path, err)
		}
		switch op.Kind {
		case OpSet, OpMerge, OpDelete:
		default:
			return wrap("commit", op.Path, fmt.Errorf("unknown op kind %d", op.Kind))
		}
	}
	return nil
}

// touchedCollections lists the collections whose snapshots change with ops
func touchedCollections(ops []Op) []string {
	seen := map[string]bool{}
	var out []string
	for _, op := range ops {
		c := Parent(op.Path)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
