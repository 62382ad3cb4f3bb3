// Package main is the entry point for the Chronicle database migration tool.
// It applies the embedded schema to SQLite or PostgreSQL backends.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/config"
	"github.com/prn-tf/chronicle/internal/repository/postgres"
	"github.com/prn-tf/chronicle/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Chronicle Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up", "status":
		if err := run(command, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// migrator is the subset of the database handle the tool needs.
type migrator interface {
	Migrate(ctx context.Context) error
	MigrationVersion(ctx context.Context) (int, error)
	Close() error
}

func run(command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Opening a connection applies pending migrations.
	var db migrator
	if cfg.Database.IsEmbedded() {
		sqliteDB, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
		if err != nil {
			return err
		}
		db = sqliteDB
	} else {
		postgresDB, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		db = postgresDB
	}
	defer db.Close()

	version, err := db.MigrationVersion(ctx)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		fmt.Printf("Schema is at version %d\n", version)
	case "status":
		fmt.Printf("Driver:  %s\n", cfg.Database.Driver)
		fmt.Printf("Version: %d\n", version)
	}

	return nil
}

func printUsage() {
	fmt.Println(`Chronicle Migration Tool

Usage:
  chronicle-migrate <command> [arguments]

Commands:
  up          Apply all pending migrations
  status      Show current migration status
  version     Print version information
  help        Show this help message

Examples:
  chronicle-migrate up --config ./configs/config.yaml
  chronicle-migrate status

Use "chronicle-migrate <command> --help" for more information about a command.`)
}
