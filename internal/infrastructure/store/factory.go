package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/hotel/backend/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FactoryOption customises gateway construction
type FactoryOption func(*factoryOptions)

type factoryOptions struct {
	dbHooks []func(*gorm.DB) error
}

// WithDatabaseHook runs fn on the database connection before it is used,
// e.g. to register tracing plugins. A nil fn is ignored.
func WithDatabaseHook(fn func(*gorm.DB) error) FactoryOption {
	return func(o *factoryOptions) {
		if fn != nil {
			o.dbHooks = append(o.dbHooks, fn)
		}
	}
}

// Open builds the gateway selected by cfg.Store.Driver. The memory gateway
// is the fallback when no remote store is configured.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...FactoryOption) (Gateway, error) {
	var o factoryOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch cfg.Store.Driver {
	case config.StoreDriverDatabase:
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
		db, err := OpenDatabase(&cfg.Database, gormLog)
		if err != nil {
			return nil, err
		}
		for _, hook := range o.dbHooks {
			if err := hook(db); err != nil {
				_ = CloseDatabase(db)
				return nil, fmt.Errorf("database hook: %w", err)
			}
		}
		g := NewGormGateway(db, log)
		if cfg.Database.AutoMigrate {
			if err := g.AutoMigrate(); err != nil {
				_ = CloseDatabase(db)
				return nil, fmt.Errorf("failed to migrate store_documents: %w", err)
			}
		}
		log.Info("Document store ready",
			zap.String("driver", cfg.Store.Driver),
			zap.String("database", cfg.Database.Driver))
		return &ownedGormGateway{GormGateway: g, db: db}, nil

	case config.StoreDriverRedis:
		g, err := NewRedisGateway(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, WithKeyPrefix(cfg.Store.KeyPrefix), WithRedisLogger(log))
		if err != nil {
			return nil, err
		}
		log.Info("Document store ready",
			zap.String("driver", cfg.Store.Driver),
			zap.String("addr", cfg.Redis.Addr()))
		return g, nil

	default:
		log.Warn("Using in-memory document store; data is lost on restart")
		return NewMemoryGateway(log), nil
	}
}

// ownedGormGateway closes the connection it was opened with
type ownedGormGateway struct {
	*GormGateway
	db *gorm.DB
}

func (g *ownedGormGateway) Close() error {
	_ = g.GormGateway.Close()
	return CloseDatabase(g.db)
}
