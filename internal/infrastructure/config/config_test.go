package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"HOTEL_APP_NAME":                os.Getenv("HOTEL_APP_NAME"),
		"HOTEL_APP_ENV":                 os.Getenv("HOTEL_APP_ENV"),
		"HOTEL_APP_PORT":                os.Getenv("HOTEL_APP_PORT"),
		"HOTEL_STORE_DRIVER":            os.Getenv("HOTEL_STORE_DRIVER"),
		"HOTEL_DATABASE_DRIVER":         os.Getenv("HOTEL_DATABASE_DRIVER"),
		"HOTEL_DATABASE_HOST":           os.Getenv("HOTEL_DATABASE_HOST"),
		"HOTEL_DATABASE_PORT":           os.Getenv("HOTEL_DATABASE_PORT"),
		"HOTEL_DATABASE_MAX_OPEN_CONNS": os.Getenv("HOTEL_DATABASE_MAX_OPEN_CONNS"),
		"HOTEL_DATABASE_MAX_IDLE_CONNS": os.Getenv("HOTEL_DATABASE_MAX_IDLE_CONNS"),
		"HOTEL_JWT_SECRET":              os.Getenv("HOTEL_JWT_SECRET"),
		"HOTEL_MAILER_ENDPOINT":         os.Getenv("HOTEL_MAILER_ENDPOINT"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "hotel-inventory", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 15*time.Second, cfg.Mailer.Timeout)
		assert.Equal(t, "USD", cfg.Printing.Currency)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
	})

	t.Run("loads values from environment variables with HOTEL prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOTEL_APP_NAME", "front-desk")
		os.Setenv("HOTEL_APP_PORT", "9000")
		os.Setenv("HOTEL_STORE_DRIVER", "database")
		os.Setenv("HOTEL_DATABASE_DRIVER", "mysql")
		os.Setenv("HOTEL_DATABASE_HOST", "db.local")
		os.Setenv("HOTEL_MAILER_ENDPOINT", "https://mail.example.com/send")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "front-desk", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, StoreDriverDatabase, cfg.Store.Driver)
		assert.Equal(t, "mysql", cfg.Database.Driver)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, "https://mail.example.com/send", cfg.Mailer.Endpoint)
	})

	t.Run("rejects unknown store driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOTEL_STORE_DRIVER", "firebase")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOTEL_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("HOTEL_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("production rejects memory store and short secrets", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOTEL_APP_ENV", "production")
		os.Setenv("HOTEL_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")

		os.Setenv("HOTEL_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.driver=memory")
	})
}

func TestFromViper_Operators(t *testing.T) {
	t.Run("decodes operator accounts", func(t *testing.T) {
		v := viper.New()
		v.Set("operators", []map[string]any{
			{"username": "maria", "display_name": "Maria", "role": "inventory-controller", "password_hash": "$2a$10$x"},
			{"username": "sam", "role": "purchasing-officer", "password_hash": "$2a$10$y"},
		})

		cfg, err := fromViper(v)
		require.NoError(t, err)
		require.Len(t, cfg.Operators, 2)
		assert.Equal(t, "maria", cfg.Operators[0].Username)
		assert.Equal(t, "Maria", cfg.Operators[0].DisplayName)
		assert.Equal(t, "purchasing-officer", cfg.Operators[1].Role)
	})

	t.Run("operator without role is rejected", func(t *testing.T) {
		v := viper.New()
		v.Set("operators", []map[string]any{{"username": "nobody"}})

		_, err := fromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "role")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "postgres escapes credentials",
			cfg:  DatabaseConfig{Driver: "postgres", User: "app", Password: "p@ss", Host: "db", Port: 5432, DBName: "hotel", SSLMode: "disable"},
			want: "postgres://app:p%40ss@db:5432/hotel?sslmode=disable",
		},
		{
			name: "mysql",
			cfg:  DatabaseConfig{Driver: "mysql", User: "app", Password: "secret", Host: "db", Port: 3306, DBName: "hotel"},
			want: "app:secret@tcp(db:3306)/hotel?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "sqlite uses path",
			cfg:  DatabaseConfig{Driver: "sqlite", Path: "/tmp/hotel.db"},
			want: "/tmp/hotel.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
