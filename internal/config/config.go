package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"time"
)

const DatabaseFile = "indexer.duckdb"

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Indexing Local Remote Authentication

type Configuration struct {
	Server         Server         `debugmap:"visible"`
	Indexing       Indexing       `debugmap:"visible"`
	Local          Local          `debugmap:"visible"`
	Remote         Remote         `debugmap:"visible"`
	Authentication Authentication `debugmap:"visible"`
	LogFormat      string         `debugmap:"visible" default:"console"`
	LogLevel       string         `debugmap:"visible" default:"info"`
}

type Server struct {
	ServerMode      string        `debugmap:"visible" default:"dev"`
	HTTPPort        int           `debugmap:"visible" default:"8000"`
	ShutdownTimeout time.Duration `debugmap:"visible" default:"10s"`
}

type Indexing struct {
	MaxTasksPerBatch int `debugmap:"visible" default:"1000"`
	// QueueCapacity defaults to MaxTasksPerBatch when zero.
	QueueCapacity int           `debugmap:"visible"`
	Fair          bool          `debugmap:"visible" default:"true"`
	BatchTimeout  time.Duration `debugmap:"visible" default:"30s"`
	// MassIndexerPageSize is how many entities one reindex page reads.
	MassIndexerPageSize int `debugmap:"visible" default:"500"`
}

type Local struct {
	// DataFolder holds the DuckDB file. Empty means in memory.
	DataFolder string `debugmap:"visible"`
}

type Remote struct {
	RemoteEnabled bool   `debugmap:"visible"`
	URL           string `debugmap:"visible" default:"http://localhost:9200"`
	Index         string `debugmap:"visible" default:"documents"`
	Token         string `debugmap:"sensitive"`
	MaxRetries    uint   `debugmap:"visible" default:"5"`
}

type Authentication struct {
	Enabled   bool   `debugmap:"visible"`
	JWTSecret string `debugmap:"sensitive"`
}

// DatabasePath is the DuckDB path derived from the data folder.
func (c *Configuration) DatabasePath() string {
	if c.Local.DataFolder == "" {
		return ":memory:"
	}
	return filepath.Join(c.Local.DataFolder, DatabaseFile)
}

func (c *Configuration) Validate() error {
	var errs []error

	if !slices.Contains([]string{"dev", "prod"}, c.Server.ServerMode) {
		errs = append(errs, fmt.Errorf("server mode must be dev or prod, got %q", c.Server.ServerMode))
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("http port out of range: %d", c.Server.HTTPPort))
	}
	if c.Indexing.MaxTasksPerBatch <= 0 {
		errs = append(errs, fmt.Errorf("max tasks per batch must be positive, got %d", c.Indexing.MaxTasksPerBatch))
	}
	if c.Indexing.QueueCapacity < 0 {
		errs = append(errs, fmt.Errorf("queue capacity must not be negative, got %d", c.Indexing.QueueCapacity))
	}
	if c.Indexing.MassIndexerPageSize <= 0 {
		errs = append(errs, fmt.Errorf("mass indexer page size must be positive, got %d", c.Indexing.MassIndexerPageSize))
	}
	if c.Remote.RemoteEnabled {
		if u, err := url.Parse(c.Remote.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid remote url %q", c.Remote.URL))
		}
		if c.Remote.Index == "" {
			errs = append(errs, errors.New("remote index name is required"))
		}
	}
	if c.Authentication.Enabled && c.Authentication.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required when authentication is enabled"))
	}
	if !slices.Contains([]string{"console", "json"}, c.LogFormat) {
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.LogFormat))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}

	return errors.Join(errs...)
}
