package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentRecord is one row of the store_documents table
type DocumentRecord struct {
	Collection string    `gorm:"primaryKey;type:varchar(512)"`
	DocID      string    `gorm:"column:doc_id;primaryKey;type:varchar(191)"`
	Data       string    `gorm:"type:text;not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentRecord) TableName() string {
	return "store_documents"
}

// GormGateway stores documents in a single SQL table
type GormGateway struct {
	db    *gorm.DB
	bcast *broadcaster
	now   func() time.Time
}

// NewGormGateway creates a gateway over an open database connection
func NewGormGateway(db *gorm.DB, logger *zap.Logger) *GormGateway {
	g := &GormGateway{db: db, now: func() time.Time { return time.Now().UTC() }}
	g.bcast = newBroadcaster(g.List, logger)
	return g
}

// AutoMigrate creates the documents table when it is missing
func (g *GormGateway) AutoMigrate() error {
	return g.db.AutoMigrate(&DocumentRecord{})
}

// Get implements Reader
func (g *GormGateway) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if err := ValidateDocumentPath(path); err != nil {
		return nil, wrap("get", path, err)
	}
	var rec DocumentRecord
	err := g.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", Parent(path), Base(path)).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrap("get", path, ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get", path, err)
	}
	return json.RawMessage(rec.Data), nil
}

// List implements Reader
func (g *GormGateway) List(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	if err := ValidateCollectionPath(collection); err != nil {
		return nil, wrap("list", collection, err)
	}
	var recs []DocumentRecord
	if err := g.db.WithContext(ctx).Where("collection = ?", collection).Find(&recs).Error; err != nil {
		return nil, wrap("list", collection, err)
	}
	out := make(map[string]json.RawMessage, len(recs))
	for _, rec := range recs {
		out[rec.DocID] = json.RawMessage(rec.Data)
	}
	return out, nil
}

// Set implements Writer
func (g *GormGateway) Set(ctx context.Context, path string, value any) error {
	op, err := SetOp(path, value)
	if err != nil {
		return err
	}
	return g.run(ctx, "set", path, []Op{op})
}

// Merge implements Writer
func (g *GormGateway) Merge(ctx context.Context, path string, fields map[string]any) error {
	op, err := MergeOp(path, fields)
	if err != nil {
		return err
	}
	return g.run(ctx, "merge", path, []Op{op})
}

// Delete implements Writer
func (g *GormGateway) Delete(ctx context.Context, path string) error {
	return g.run(ctx, "delete", path, []Op{DeleteOp(path)})
}

// Commit implements Gateway using one database transaction
func (g *GormGateway) Commit(ctx context.Context, ops []Op) error {
	if len(ops) == 0 {
		return nil
	}
	return g.run(ctx, "commit", "", ops)
}

// Subscribe implements Gateway. Only writes made through this process
// trigger snapshots.
func (g *GormGateway) Subscribe(ctx context.Context, collection string, fn func(Snapshot)) (Subscription, error) {
	return g.bcast.subscribe(ctx, collection, fn)
}

// Ping implements Gateway
func (g *GormGateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return wrap("ping", "", err)
	}
	return wrap("ping", "", sqlDB.PingContext(ctx))
}

// Close stops subscriptions. The connection belongs to the caller.
func (g *GormGateway) Close() error {
	g.bcast.closeAll()
	return nil
}

func (g *GormGateway) run(ctx context.Context, opName, path string, ops []Op) error {
	if err := validateOps(ops); err != nil {
		return err
	}
	failed := path
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if err := g.applyOne(tx, op); err != nil {
				if opName == "commit" {
					failed = op.Path
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrap(opName, failed, err)
	}
	g.bcast.notifyOps(ops)
	return nil
}

func (g *GormGateway) applyOne(tx *gorm.DB, op Op) error {
	collection, id := Parent(op.Path), Base(op.Path)

	switch op.Kind {
	case OpSet:
		return g.upsert(tx, collection, id, op.Data)
	case OpMerge:
		var rec DocumentRecord
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		merged, err := mergeDocument(json.RawMessage(rec.Data), op.Fields)
		if err != nil {
			return err
		}
		return g.upsert(tx, collection, id, merged)
	case OpDelete:
		if err := tx.Where("collection = ? AND doc_id = ?", collection, id).
			Delete(&DocumentRecord{}).Error; err != nil {
			return err
		}
		prefix := op.Path + "/"
		return tx.Where("SUBSTR(collection, 1, ?) = ?", len(prefix), prefix).
			Delete(&DocumentRecord{}).Error
	}
	return nil
}

func (g *GormGateway) upsert(tx *gorm.DB, collection, id string, data json.RawMessage) error {
	rec := DocumentRecord{
		Collection: collection,
		DocID:      id,
		Data:       string(data),
		UpdatedAt:  g.now(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
}
