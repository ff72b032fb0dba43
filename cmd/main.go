package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/flixfile/flixctl/internal/session"
	"github.com/flixfile/flixctl/internal/shared"
)

func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "flixctl",
		Usage:    "Browse the myFlix movie catalog from the terminal",
		Version:  "0.3.0",
		Commands: r.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var sessions session.Store = session.NewMemoryStore()

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warn("database unavailable, session will not persist", "error", err)
	} else {
		defer db.Close()
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		// migrations are idempotent; keeps the sessions table present without
		// forcing a setup step before first login
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("migrations failed, session will not persist", "error", err)
		} else {
			sessions = session.NewSQLiteStore(db)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Sessions: sessions,
		DB:       db,
		Logger:   logger,
	})

	app := rootCommand(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrUnauthenticated) || errors.Is(err, shared.ErrMovieNotFound) {
			logger.Fatal(err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
