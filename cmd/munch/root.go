// ABOUTME: Root Cobra command and global flags for munch CLI.
// ABOUTME: Sets up lifecycle hooks for config loading, logging, and tracker initialization.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/munch/internal/config"
	"github.com/2389-research/munch/internal/recognition"
	"github.com/2389-research/munch/internal/storage"
	"github.com/2389-research/munch/internal/tracker"
)

var globalConfig *config.Config
var globalStore storage.EntryStore
var globalTracker *tracker.Tracker
var verbose bool

// openStore opens the configured entry store.
var openStore = storage.Open

var rootCmd = &cobra.Command{
	Use:   "munch",
	Short: "Log what you eat from plain-text descriptions",
	Long: `
███╗   ███╗██╗   ██╗███╗   ██╗ ██████╗██╗  ██╗
████╗ ████║██║   ██║████╗  ██║██╔════╝██║  ██║
██╔████╔██║██║   ██║██╔██╗ ██║██║     ███████║
██║╚██╔╝██║██║   ██║██║╚██╗██║██║     ██╔══██║
██║ ╚═╝ ██║╚██████╔╝██║ ╚████║╚██████╗██║  ██║
╚═╝     ╚═╝ ╚═════╝ ╚═╝  ╚═══╝ ╚═════╝╚═╝  ╚═╝

Describe a meal in your own words, match it against a food catalog,
and keep a local log of calories and macronutrients.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		level := cfg.LogLevel()
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		store, tr, err := openTracker(cfg)
		if err != nil {
			return err
		}
		globalStore = store
		globalTracker = tr

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalStore != nil {
			_ = globalStore.Close()
			globalStore = nil
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
}

// openTracker builds the engine, opens the entry store, and starts a tracker
// over them. The store is closed again if the tracker cannot start.
func openTracker(cfg *config.Config) (storage.EntryStore, *tracker.Tracker, error) {
	catalogPath, err := cfg.GetCatalogPath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	var engine *recognition.Engine
	if catalogPath == "" {
		engine, err = recognition.NewDefaultEngine()
	} else {
		engine, err = recognition.NewEngine(catalogPath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load food catalog: %w", err)
	}

	dataDir, err := cfg.GetDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	store, err := openStore(cfg.Storage.Backend, dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open entry store: %w", err)
	}

	tr, err := tracker.New(engine, store)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to start tracker: %w", err)
	}
	return store, tr, nil
}

// topK resolves a --top-k flag against the configured default.
func topK(flag int) int {
	if flag > 0 {
		return flag
	}
	if globalConfig != nil {
		return globalConfig.TopK()
	}
	return config.DefaultTopK
}
