// Package config defines the configuration structure of the indexer.
//
// Configuration is organized into logical sections. Defaults come from
// `default` struct tags; cmd/indexer overrides them from flags, INDEXER_*
// environment variables and an optional config file read by viper.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - HTTP server settings
//	├── Indexing       - Batching executor settings
//	├── Local          - Local DuckDB index
//	├── Remote         - Search cluster connection
//	├── Authentication - JWT bearer authentication of the API
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	│ ShutdownTimeout  │ 10s     │ Graceful shutdown bound                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Indexing Configuration
//
//	┌─────────────────────┬─────────┬──────────────────────────────────────┐
//	│ Field               │ Default │ Description                          │
//	├─────────────────────┼─────────┼──────────────────────────────────────┤
//	│ MaxTasksPerBatch    │ 1000    │ Worksets drained per batch           │
//	│ QueueCapacity       │ 0       │ Back-pressure threshold (0 = batch)  │
//	│ Fair                │ true    │ FIFO admission of blocked producers  │
//	│ BatchTimeout        │ 30s     │ Bound of one flush to a backend      │
//	│ MassIndexerPageSize │ 500     │ Entities read per reindex page       │
//	└─────────────────────┴─────────┴──────────────────────────────────────┘
//
// BatchTimeout is enforced by the writers, never by the executor.
//
// # Remote Configuration
//
//	┌───────────────┬─────────────────────────┬──────────────────────────────┐
//	│ Field         │ Default                 │ Description                  │
//	├───────────────┼─────────────────────────┼──────────────────────────────┤
//	│ RemoteEnabled │ false                   │ Index into a search cluster  │
//	│ URL           │ "http://localhost:9200" │ Cluster base URL             │
//	│ Index         │ "documents"             │ Target index                 │
//	│ Token         │ ""                      │ Bearer token                 │
//	│ MaxRetries    │ 5                       │ Attempts per bulk request    │
//	└───────────────┴─────────────────────────┴──────────────────────────────┘
//
// # Code Generation
//
// The package uses optgen to generate functional option helpers:
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Indexing Local Remote Authentication
//
// Generated helpers include:
//
//   - NewConfigurationWithOptions(...ConfigurationOption) - Create with options
//   - NewConfigurationWithOptionsAndDefaults(...ConfigurationOption) - Create with defaults + options
//   - WithServer(Server), WithRemote(Remote), etc. - Set nested structs
//   - DebugMap() - Returns map for debug logging (respects debugmap tags)
//
// Option names are generated per field, so field names stay unique across
// the sections.
//
// # Usage Example
//
//	cfg := config.NewConfigurationWithOptionsAndDefaults(
//	    config.WithRemote(*config.NewRemoteWithOptionsAndDefaults(
//	        config.WithRemoteEnabled(true),
//	        config.WithURL("https://search.example.com"),
//	    )),
//	    config.WithLogLevel("debug"),
//	)
//
// # Debug Logging
//
// DebugMap returns a map safe for structured logging. Token and JWTSecret
// are tagged `debugmap:"sensitive"` and never printed.
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
