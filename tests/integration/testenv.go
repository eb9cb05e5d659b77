//go:build integration

// Package integration runs the store gateways and the receiving flow against
// real PostgreSQL and Redis containers.
package integration

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/hotel/backend/internal/infrastructure/migration"
	"github.com/hotel/backend/internal/infrastructure/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const (
	postgresImage = "postgres:16-alpine"
	redisImage    = "redis:7-alpine"
)

// NewPostgresGateway starts a PostgreSQL container, applies the schema
// migrations and returns a gateway backed by it
func NewPostgresGateway(t *testing.T) *store.GormGateway {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		postgresImage,
		tcpostgres.WithDatabase("hotel_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	db, err := store.OpenDatabase(&config.DatabaseConfig{
		Driver:       "postgres",
		Host:         host,
		Port:         portNum,
		User:         "postgres",
		Password:     "postgres",
		DBName:       "hotel_test",
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	}, gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err, "Failed to connect to PostgreSQL")
	t.Cleanup(func() {
		_ = store.CloseDatabase(db)
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	migrator, err := migration.New(sqlDB, "postgres", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up(), "Failed to apply migrations")

	return store.NewGormGateway(db, zap.NewNop())
}

// NewRedisClient starts a Redis container and returns a client connected to it
func NewRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() {
		_ = client.Close()
	})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

// NewRedisGateway returns a gateway on a fresh Redis container
func NewRedisGateway(t *testing.T) *store.RedisGateway {
	t.Helper()
	gw, err := store.NewRedisGatewayWithClient(context.Background(), NewRedisClient(t),
		store.WithKeyPrefix("hotel-test"),
		store.WithRedisLogger(zap.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = gw.Close()
	})
	return gw
}
