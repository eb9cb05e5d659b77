package persistence

import (
	"context"
	"encoding/json"

	"github.com/hotel/backend/internal/infrastructure/store"
)

// batchCommitter is implemented by gateways that apply op batches atomically
type batchCommitter interface {
	Commit(ctx context.Context, ops []store.Op) error
}

// writeOps applies ops atomically on a gateway, or buffers them on a Tx
func writeOps(ctx context.Context, st store.Store, ops []store.Op) error {
	if c, ok := st.(batchCommitter); ok {
		return c.Commit(ctx, ops)
	}
	for _, op := range ops {
		var err error
		switch op.Kind {
		case store.OpSet:
			err = st.Set(ctx, op.Path, op.Data)
		case store.OpMerge:
			fields := make(map[string]any, len(op.Fields))
			for k, v := range op.Fields {
				fields[k] = v
			}
			err = st.Merge(ctx, op.Path, fields)
		case store.OpDelete:
			err = st.Delete(ctx, op.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// getDocument loads and decodes one document; nil, nil when absent
func getDocument[T any](ctx context.Context, st store.Reader, path string) (*T, error) {
	raw, err := st.Get(ctx, path)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument[T](path, raw)
}

// listDocuments loads and decodes a whole collection
func listDocuments[T any](ctx context.Context, st store.Reader, collection string) ([]*T, error) {
	raws, err := st.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(raws))
	for id, raw := range raws {
		doc, err := decodeDocument[T](store.Join(collection, id), raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func decodeDocument[T any](path string, raw json.RawMessage) (*T, error) {
	var doc T
	if err := store.Decode(raw, &doc); err != nil {
		return nil, &store.Error{Op: "decode", Path: path, Err: err}
	}
	return &doc, nil
}
