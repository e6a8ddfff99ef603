package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/jrmoreno/catalogbridge/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	for i, arg := range os.Args {
		if (arg == "-c" || arg == "--config") && i+1 < len(os.Args) {
			configPath = os.Args[i+1]
		}
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	jobs, items, users, conns, closeDB, err := openStore(config)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer closeDB()

	runner := NewRunner(RunnerConfig{
		Config: config,
		Logger: logger,
		Jobs:   jobs,
		Items:  items,
		Users:  users,
		Conns:  conns,
	})

	app := &cli.Command{
		Name:    "catalogbridge",
		Usage:   "Migrate playlists from Spotify to YouTube Music, TIDAL, or Qobuz",
		Version: "0.1.0",
		Commands: []*cli.Command{
			configCommand(runner),
			jobCommand(runner),
			workerCommand(runner),
			reviewCommand(runner),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
