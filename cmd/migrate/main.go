// Command migrate manages the SQL schema of the document store.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/hotel/backend/internal/infrastructure/logger"
	"github.com/hotel/backend/internal/infrastructure/migration"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultSourceDir = "internal/infrastructure/migration/sql"

func main() {
	var (
		sourceDir string
		logLevel  string
	)
	flag.StringVar(&sourceDir, "dir", defaultSourceDir, "Migration source tree used by the create command")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to load .env file", zap.Error(err))
	}

	if command == "create" {
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name>")
		}
		mf, err := migration.CreateMigration(sourceDir, args[1], time.Now())
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created", zap.String("version", mf.Version), zap.Strings("files", mf.Paths))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	driver := cfg.Database.Driver

	if command == "list" {
		names, err := migration.List(driver)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return
	}

	if driver == "sqlite" {
		log.Fatal("sqlite databases are created by database.auto_migrate, not by this tool")
	}
	db, err := sql.Open(driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, driver, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	if err := run(m, command, args[1:], log); err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func run(m *migration.Migrator, command string, args []string, log *zap.Logger) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		if len(args) < 1 {
			return fmt.Errorf("usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	case "goto":
		if len(args) < 1 {
			return fmt.Errorf("usage: migrate goto <version>")
		}
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(v))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		if len(args) < 1 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(v)
	}
	printUsage()
	return fmt.Errorf("unknown command %q", command)
}

func printUsage() {
	fmt.Println(`Hotel inventory schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (negative rolls back)
  goto <version>    Migrate to a specific version
  version           Show the applied version
  force <version>   Mark a version as applied (clears a dirty state)
  list              List embedded migrations for database.driver
  create <name>     Create empty migration files for every dialect

Flags:
  -dir string        Migration source tree for create (default: internal/infrastructure/migration/sql)
  -log-level string  debug, info, warn, error (default: info)

The database is taken from config.toml and HOTEL_DATABASE_* variables.`)
}
