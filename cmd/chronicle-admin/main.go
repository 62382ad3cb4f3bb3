// Package main is the entry point for the Chronicle admin CLI.
// This tool provides administrative commands for managing users without
// going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/config"
	"github.com/prn-tf/chronicle/internal/repository"
	"github.com/prn-tf/chronicle/internal/repository/postgres"
	"github.com/prn-tf/chronicle/internal/repository/sqlite"
	"github.com/prn-tf/chronicle/internal/service"
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
		fmt.Printf("Chronicle Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		if err := runUserCommand(os.Args[2:]); err != nil {
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

func runUserCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("user requires a subcommand: create, list")
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		configPath := fs.String("config", "", "path to configuration file")
		username := fs.String("username", "", "username (required)")
		name := fs.String("name", "", "display name")
		password := fs.String("password", "", "password (required)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *username == "" || *password == "" {
			return fmt.Errorf("--username and --password are required")
		}
		return withUserService(*configPath, func(ctx context.Context, users *service.UserService) error {
			output, err := users.Create(ctx, service.CreateUserInput{
				Username: *username,
				Name:     *name,
				Password: *password,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created user %s (%s)\n", output.User.Username, output.User.ID)
			return nil
		})

	case "list":
		fs := flag.NewFlagSet("user list", flag.ExitOnError)
		configPath := fs.String("config", "", "path to configuration file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return withUserService(*configPath, func(ctx context.Context, users *service.UserService) error {
			list, err := users.List(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%-36s  %-20s  %-20s  %s\n", "ID", "USERNAME", "NAME", "BLOGS")
			for _, u := range list {
				fmt.Printf("%-36s  %-20s  %-20s  %d\n", u.ID, u.Username, u.Name, len(u.Blogs))
			}
			return nil
		})

	default:
		return fmt.Errorf("unknown user subcommand: %s", args[0])
	}
}

// withUserService opens the configured database, runs fn, and closes it.
func withUserService(configPath string, fn func(context.Context, *service.UserService) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	logger := zerolog.Nop()

	var (
		repos  *repository.Repositories
		health repository.DatabaseHealth
	)
	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqlite.Config{
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
		repos, health = db.NewRepositories(), db
	} else {
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		repos, health = db.NewRepositories(), db
	}
	defer health.Close()

	users := service.NewUserService(repos.User, cfg.Auth.BcryptCost, cfg.Auth.MinPasswordLength, logger)
	return fn(ctx, users)
}

func printUsage() {
	fmt.Println(`Chronicle Admin CLI

Usage:
  chronicle-admin <command> [arguments]

Commands:
  user        Manage users (create, list)
  version     Print version information
  help        Show this help message

Examples:
  chronicle-admin user create --username admin --name "Admin" --password sekret99
  chronicle-admin user list --config ./configs/config.yaml

Use "chronicle-admin <command> --help" for more information about a command.`)
}
