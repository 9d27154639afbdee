// Package main is the entry point for the Estancia schema migration tool.
// It applies the embedded migrations to the configured sqlite or postgres
// database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/config"
	"github.com/solera-labs/estancia/internal/repository/postgres"
	"github.com/solera-labs/estancia/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// migrator is the slice of the database handle this tool needs.
type migrator interface {
	Migrate(ctx context.Context) error
	Version(ctx context.Context) (int, error)
	Close() error
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}
	command := flag.Arg(0)

	if command == "version" {
		fmt.Printf("Estancia Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		return
	}
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := openDB(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch command {
	case "up":
		if err := db.Migrate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		version, _ := db.Version(ctx)
		fmt.Printf("migrations applied, schema version %d\n", version)

	case "status":
		version, err := db.Version(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read schema version: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("driver: %s\nschema version: %d\n", cfg.Database.Driver, version)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// openDB opens the configured durable database without migrating it.
func openDB(ctx context.Context, cfg *config.Config) (migrator, error) {
	logger := zerolog.Nop()

	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return db, nil

	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("database driver %q has no migrations", cfg.Database.Driver)
	}
}

func printUsage() {
	fmt.Println(`Estancia Migration Tool

Usage:
  estancia-migrate [-config path] <command>

Commands:
  up          Apply all pending migrations
  status      Show the current schema version
  version     Print version information
  help        Show this help message

Configuration:
  The database is selected by the same config file / ESTANCIA_* environment
  variables the server uses (database.driver must be sqlite or postgres).`)
}
