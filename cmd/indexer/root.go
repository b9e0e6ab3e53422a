package main

import (
	"errors"
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kubev2v/index-orchestrator/internal/config"
)

const envPrefix = "INDEXER"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "indexer",
		Short:         "Keeps local and remote search indexes in sync with entity changes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// INDEXER_HTTP_PORT sets --http-port unless the flag is given.
	root.PersistentPreRunE = cobrautil.SyncViperPreRunE(envPrefix)

	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

// registerFlags binds every configuration field to a flag. Flag defaults are
// the struct defaults already set on cfg.
func registerFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.String("config", "", "Path to a configuration file (yaml, json or toml)")

	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode: dev or prod")
	flags.IntVar(&cfg.Server.HTTPPort, "http-port", cfg.Server.HTTPPort, "HTTP port")
	flags.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", cfg.Server.ShutdownTimeout, "Time allowed for a graceful shutdown")

	flags.IntVar(&cfg.Indexing.MaxTasksPerBatch, "max-tasks-per-batch", cfg.Indexing.MaxTasksPerBatch, "Maximum operations applied in one batch")
	flags.IntVar(&cfg.Indexing.QueueCapacity, "queue-capacity", cfg.Indexing.QueueCapacity, "Queued operations before producers block (0 means max-tasks-per-batch)")
	flags.BoolVar(&cfg.Indexing.Fair, "fair", cfg.Indexing.Fair, "Admit blocked producers in arrival order")
	flags.DurationVar(&cfg.Indexing.BatchTimeout, "batch-timeout", cfg.Indexing.BatchTimeout, "Maximum time to apply one batch (0 disables)")
	flags.IntVar(&cfg.Indexing.MassIndexerPageSize, "mass-indexer-page-size", cfg.Indexing.MassIndexerPageSize, "Entities read per reindex page")

	flags.StringVar(&cfg.Local.DataFolder, "data-folder", cfg.Local.DataFolder, "Folder of the DuckDB file (empty keeps the index in memory)")

	flags.BoolVar(&cfg.Remote.RemoteEnabled, "remote-enabled", cfg.Remote.RemoteEnabled, "Index to a remote search cluster")
	flags.StringVar(&cfg.Remote.URL, "remote-url", cfg.Remote.URL, "Remote search cluster url")
	flags.StringVar(&cfg.Remote.Index, "remote-index", cfg.Remote.Index, "Remote index name")
	flags.StringVar(&cfg.Remote.Token, "remote-token", cfg.Remote.Token, "Bearer token for the remote cluster")
	flags.UintVar(&cfg.Remote.MaxRetries, "remote-max-retries", cfg.Remote.MaxRetries, "Retries of a failed bulk request")

	flags.BoolVar(&cfg.Authentication.Enabled, "authentication-enabled", cfg.Authentication.Enabled, "Require a JWT on the api")
	flags.StringVar(&cfg.Authentication.JWTSecret, "jwt-secret", cfg.Authentication.JWTSecret, "HS256 secret used to verify api tokens")

	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console or json")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
}

// readConfigFile fills every flag still unset after the environment sync
// from the --config file.
func readConfigFile(flags *pflag.FlagSet) error {
	path, _ := flags.GetString("config")
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "config" || !v.IsSet(f.Name) {
			return
		}
		if err := f.Value.Set(v.GetString(f.Name)); err != nil {
			errs = append(errs, fmt.Errorf("invalid value for %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}
