package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultCloseTimeout = 5 * time.Second
	maxTxRetries        = 5
)

// changeMessage announces a write to every replica
type changeMessage struct {
	Origin      string   `json:"origin"`
	Collections []string `json:"collections"`
	Deleted     []string `json:"deleted,omitempty"`
	Timestamp   int64    `json:"timestamp"`
}

// RedisGateway keeps one hash per collection under {prefix}:{collection}.
// Writes are announced on {prefix}:changes so subscribers on every replica
// receive snapshots.
type RedisGateway struct {
	client     *redis.Client
	ownsClient bool
	prefix     string
	origin     string
	logger     *zap.Logger
	bcast      *broadcaster

	mu       sync.Mutex
	cancelFn context.CancelFunc
	doneCh   chan struct{}
	doneOnce sync.Once
}

// RedisOption configures a RedisGateway
type RedisOption func(*RedisGateway)

// WithRedisLogger sets the logger
func WithRedisLogger(logger *zap.Logger) RedisOption {
	return func(g *RedisGateway) {
		g.logger = logger
	}
}

// WithKeyPrefix sets the key namespace
func WithKeyPrefix(prefix string) RedisOption {
	return func(g *RedisGateway) {
		g.prefix = prefix
	}
}

// NewRedisGateway connects to Redis and starts listening for changes
func NewRedisGateway(ctx context.Context, opts *redis.Options, options ...RedisOption) (*RedisGateway, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	g := newRedisGateway(client, options...)
	g.ownsClient = true
	if err := g.listen(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return g, nil
}

// NewRedisGatewayWithClient uses a shared client; Close leaves it open
func NewRedisGatewayWithClient(ctx context.Context, client *redis.Client, options ...RedisOption) (*RedisGateway, error) {
	g := newRedisGateway(client, options...)
	if err := g.listen(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

func newRedisGateway(client *redis.Client, options ...RedisOption) *RedisGateway {
	g := &RedisGateway{
		client: client,
		prefix: "hotel",
		origin: uuid.NewString(),
		logger: zap.NewNop(),
		doneCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(g)
	}
	g.bcast = newBroadcaster(g.List, g.logger)
	return g
}

func (g *RedisGateway) key(collection string) string {
	return g.prefix + ":" + collection
}

func (g *RedisGateway) registryKey() string {
	return g.prefix + ":_collections"
}

func (g *RedisGateway) channel() string {
	return g.prefix + ":changes"
}

// Get implements Reader
func (g *RedisGateway) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if err := ValidateDocumentPath(path); err != nil {
		return nil, wrap("get", path, err)
	}
	val, err := g.client.HGet(ctx, g.key(Parent(path)), Base(path)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, wrap("get", path, ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get", path, err)
	}
	return json.RawMessage(val), nil
}

// List implements Reader
func (g *RedisGateway) List(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	if err := ValidateCollectionPath(collection); err != nil {
		return nil, wrap("list", collection, err)
	}
	vals, err := g.client.HGetAll(ctx, g.key(collection)).Result()
	if err != nil {
		return nil, wrap("list", collection, err)
	}
	out := make(map[string]json.RawMessage, len(vals))
	for id, v := range vals {
		out[id] = json.RawMessage(v)
	}
	return out, nil
}

// Set implements Writer
func (g *RedisGateway) Set(ctx context.Context, path string, value any) error {
	op, err := SetOp(path, value)
	if err != nil {
		return err
	}
	return g.run(ctx, "set", path, []Op{op})
}

// Merge implements Writer
func (g *RedisGateway) Merge(ctx context.Context, path string, fields map[string]any) error {
	op, err := MergeOp(path, fields)
	if err != nil {
		return err
	}
	return g.run(ctx, "merge", path, []Op{op})
}

// Delete implements Writer
func (g *RedisGateway) Delete(ctx context.Context, path string) error {
	return g.run(ctx, "delete", path, []Op{DeleteOp(path)})
}

// Commit implements Gateway with WATCH/MULTI/EXEC
func (g *RedisGateway) Commit(ctx context.Context, ops []Op) error {
	if len(ops) == 0 {
		return nil
	}
	return g.run(ctx, "commit", "", ops)
}

// Subscribe implements Gateway
func (g *RedisGateway) Subscribe(ctx context.Context, collection string, fn func(Snapshot)) (Subscription, error) {
	return g.bcast.subscribe(ctx, collection, fn)
}

// Ping implements Gateway
func (g *RedisGateway) Ping(ctx context.Context) error {
	return wrap("ping", "", g.client.Ping(ctx).Err())
}

func (g *RedisGateway) run(ctx context.Context, opName, path string, ops []Op) error {
	if err := validateOps(ops); err != nil {
		return err
	}

	watched := []string{g.registryKey()}
	for _, c := range touchedCollections(ops) {
		watched = append(watched, g.key(c))
	}

	var nested []string
	txf := func(tx *redis.Tx) error {
		var err error
		nested, err = g.stage(ctx, tx, ops)
		return err
	}

	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = g.client.Watch(ctx, txf, watched...)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			return &Error{Op: opName, Path: se.Path, Err: se.Err}
		}
		return wrap(opName, path, err)
	}

	g.bcast.notifyOps(ops)
	g.publish(ctx, ops, nested)
	return nil
}

// stage reads what the ops depend on, then queues every write in one MULTI
func (g *RedisGateway) stage(ctx context.Context, tx *redis.Tx, ops []Op) ([]string, error) {
	collections, err := tx.SMembers(ctx, g.registryKey()).Result()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(collections))
	for _, c := range collections {
		known[c] = true
	}

	overlay := map[string]json.RawMessage{}
	var deleted []string
	var nested []string
	hidden := func(p string) bool {
		for _, d := range deleted {
			if strings.HasPrefix(p, d+"/") {
				return true
			}
		}
		return false
	}

	type write struct {
		op       Op
		data     json.RawMessage
		children []string
	}
	writes := make([]write, 0, len(ops))

	for _, op := range ops {
		switch op.Kind {
		case OpSet:
			overlay[op.Path] = op.Data
			known[Parent(op.Path)] = true
			writes = append(writes, write{op: op, data: op.Data})
		case OpMerge:
			current, ok := overlay[op.Path]
			if !ok && !hidden(op.Path) {
				val, err := tx.HGet(ctx, g.key(Parent(op.Path)), Base(op.Path)).Result()
				if err != nil && !errors.Is(err, redis.Nil) {
					return nil, &Error{Op: op.Kind.String(), Path: op.Path, Err: err}
				}
				if err == nil {
					current = json.RawMessage(val)
				}
			}
			if current == nil {
				return nil, &Error{Op: op.Kind.String(), Path: op.Path, Err: ErrNotFound}
			}
			merged, err := mergeDocument(current, op.Fields)
			if err != nil {
				return nil, &Error{Op: op.Kind.String(), Path: op.Path, Err: err}
			}
			overlay[op.Path] = merged
			writes = append(writes, write{op: op, data: merged})
		case OpDelete:
			prefix := op.Path + "/"
			for p := range overlay {
				if strings.HasPrefix(p, prefix) {
					delete(overlay, p)
				}
			}
			overlay[op.Path] = nil
			deleted = append(deleted, op.Path)
			var children []string
			for c := range known {
				if strings.HasPrefix(c, prefix) {
					children = append(children, c)
					delete(known, c)
				}
			}
			nested = append(nested, children...)
			writes = append(writes, write{op: op, children: children})
		}
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, w := range writes {
			collection, id := Parent(w.op.Path), Base(w.op.Path)
			switch w.op.Kind {
			case OpSet, OpMerge:
				pipe.HSet(ctx, g.key(collection), id, string(w.data))
				pipe.SAdd(ctx, g.registryKey(), collection)
			case OpDelete:
				pipe.HDel(ctx, g.key(collection), id)
				for _, c := range w.children {
					pipe.Del(ctx, g.key(c))
					pipe.SRem(ctx, g.registryKey(), c)
				}
			}
		}
		return nil
	})
	return nested, err
}

func (g *RedisGateway) publish(ctx context.Context, ops []Op, nested []string) {
	msg := changeMessage{
		Origin:      g.origin,
		Collections: append(touchedCollections(ops), nested...),
		Timestamp:   time.Now().UnixNano(),
	}
	for _, op := range ops {
		if op.Kind == OpDelete {
			msg.Deleted = append(msg.Deleted, op.Path)
		}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		g.logger.Error("Failed to marshal change message", zap.Error(err))
		return
	}
	if err := g.client.Publish(ctx, g.channel(), data).Err(); err != nil {
		g.logger.Warn("Failed to publish change message",
			zap.String("channel", g.channel()),
			zap.Error(err))
	}
}

// listen subscribes to the change channel and relays remote writes to
// local subscribers until Close
func (g *RedisGateway) listen(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	pubsub := g.client.Subscribe(subCtx, g.channel())
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	g.mu.Lock()
	g.cancelFn = cancel
	g.mu.Unlock()

	g.logger.Info("Subscribed to store change channel", zap.String("channel", g.channel()))

	go func() {
		defer g.markDone()
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					g.logger.Warn("Store change channel closed")
					return
				}
				g.handleChange(msg.Payload)
			}
		}
	}()
	return nil
}

func (g *RedisGateway) handleChange(payload string) {
	var msg changeMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		g.logger.Error("Failed to unmarshal change message",
			zap.String("payload", payload),
			zap.Error(err))
		return
	}
	if msg.Origin == g.origin {
		return
	}
	g.bcast.notify(msg.Collections...)
	for _, d := range msg.Deleted {
		g.bcast.notifyBeneath(d)
	}
}

func (g *RedisGateway) markDone() {
	g.doneOnce.Do(func() {
		close(g.doneCh)
	})
}

// Close stops the change listener and every subscription
func (g *RedisGateway) Close() error {
	g.bcast.closeAll()

	g.mu.Lock()
	cancelFn := g.cancelFn
	g.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-g.doneCh:
		case <-time.After(defaultCloseTimeout):
			g.logger.Warn("Timeout waiting for change listener to stop")
		}
	}

	if g.ownsClient {
		return g.client.Close()
	}
	return nil
}
