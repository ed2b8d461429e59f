package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/sitemap-xml-plugin/config"
	"github.com/romangod6/sitemap-xml-plugin/internal/api"
	"github.com/romangod6/sitemap-xml-plugin/internal/bundler"
	"github.com/romangod6/sitemap-xml-plugin/internal/runner"
	"github.com/romangod6/sitemap-xml-plugin/internal/sitemap"
	"github.com/romangod6/sitemap-xml-plugin/internal/storage"
	"github.com/romangod6/sitemap-xml-plugin/internal/utils"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run one build and emit the sitemap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		buildMode := env.cfg.Build.Mode
		if mode != "" {
			buildMode = mode
		}
		m, err := bundler.ParseMode(buildMode)
		if err != nil {
			return err
		}

		record, err := env.runner.Run(cmd.Context(), m)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s (%d entries, %d bytes)\n", record.Status, record.FileName, record.EntryCount, record.Size)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the build API and rebuild on schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		m, err := bundler.ParseMode(env.cfg.Build.Mode)
		if err != nil {
			return err
		}

		server := api.NewServer(env.cfg.Server.Port, env.store, env.runner)
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Setup periodic rebuilds
		if interval := env.cfg.GetScheduleInterval(); interval > 0 {
			ticker := time.NewTicker(interval)
			go func() {
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						env.logger.LogInfo("Starting scheduled build...")
						env.runner.Run(ctx, m)
					case <-ctx.Done():
						return
					}
				}
			}()
		}

		go func() {
			env.logger.LogInfo("Starting API server on port %d", env.cfg.Server.Port)
			if err := server.Start(); err != nil {
				env.logger.LogError("API server stopped: %v", err)
				cancel()
			}
		}()

		waitForShutdown(ctx, cancel, server, env.logger)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the entries of a sitemap file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := sitemap.Parse(data)
		if err != nil {
			return err
		}

		fmt.Printf("Total URLs found: %d\n\n", len(doc.URLs))
		for _, u := range doc.URLs {
			fmt.Printf("%s\tlastmod=%s\tchangefreq=%s", u.Loc, u.LastMod, u.ChangeFreq)
			if u.Priority != "" {
				fmt.Printf("\tpriority=%s", u.Priority)
			}
			fmt.Println()
		}
		return nil
	},
}

type environment struct {
	cfg    *config.Config
	store  storage.Store
	logger *utils.BuildLogger
	runner *runner.Runner
}

func setup() (*environment, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := utils.NewBuildLogger(utils.LogOptions{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	env := &environment{cfg: cfg, logger: logger}
	if cfg.Database.URL != "" {
		store, err := storage.Open(cfg.Database.URL)
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		if err := store.Initialize(); err != nil {
			store.Close()
			logger.Close()
			return nil, fmt.Errorf("failed to initialize database tables: %w", err)
		}
		env.store = store
	}

	env.runner = runner.New(cfg, env.store, logger)
	return env, nil
}

func (e *environment) close() {
	if e.store != nil {
		e.store.Close()
	}
	e.logger.Close()
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, server *api.Server, logger *utils.BuildLogger) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	logger.LogInfo("Shutting down...")
	cancel()

	// Graceful server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError("Error shutting down server: %v", err)
	}
	logger.LogInfo("Server shut down gracefully")
}
