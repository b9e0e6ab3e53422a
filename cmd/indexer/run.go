package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/index-orchestrator/internal/app"
	"github.com/kubev2v/index-orchestrator/internal/config"
)

func newRunCmd() *cobra.Command {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the indexing service and its HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfigFile(cmd.Flags()); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			defer func() { _ = logger.Sync() }()

			zap.S().Infow("starting indexer", "version", version, "configuration", cfg.DebugMap())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}

	registerFlags(cmd.Flags(), cfg)
	return cmd
}
