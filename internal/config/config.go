// Package config provides the configuration schema, loader, file watcher and
// storage backend registry for dikte.
package config

import (
	"os"
	"path/filepath"

	"github.com/MrWong99/dikte/internal/transcript"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Backend names a persistence backend.
type Backend string

const (
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// IsValid reports whether b is a recognised backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendFile, BackendSQLite, BackendPostgres:
		return true
	}
	return false
}

// Config is the root configuration structure. It is typically loaded from a
// YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Learning LearningConfig `yaml:"learning"`
	Observe  ObserveConfig  `yaml:"observe"`
}

// ServerConfig holds network and logging settings for `dikte serve`.
type ServerConfig struct {
	// ListenAddr is the TCP address the HTTP API listens on. Default ":8420".
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity. Default "info".
	LogLevel LogLevel `yaml:"log_level"`

	// TLS enables HTTPS when set.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds paths to the certificate and private key.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// StorageConfig selects where corrections, profile and history live.
type StorageConfig struct {
	// Backend is one of "file" (default), "sqlite" or "postgres".
	Backend Backend `yaml:"backend"`

	// Dir is the document directory of the file backend and the default
	// parent of the SQLite database.
	Dir string `yaml:"dir"`

	// SQLitePath is the database file. Default <dir>/dikte.db.
	SQLitePath string `yaml:"sqlite_path"`

	// PostgresDSN is the connection string of the postgres backend.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// PipelineConfig holds the default language and the pipeline switches.
type PipelineConfig struct {
	// Language is used when a request does not name one. Default "tr".
	Language string `yaml:"language"`

	transcript.Options `yaml:",inline"`
}

// LearningConfig tunes the correction lifecycle.
type LearningConfig struct {
	// MaintenanceInterval is the number of observed transcripts between
	// status recalculations. 0 disables maintenance. Default 100.
	MaintenanceInterval uint32 `yaml:"maintenance_interval"`

	// JournalPath, when set, receives one JSON line per learned edit.
	JournalPath string `yaml:"journal_path"`
}

// ObserveConfig controls telemetry.
type ObserveConfig struct {
	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `yaml:"metrics"`

	// ServiceName is reported in telemetry. Default "dikte".
	ServiceName string `yaml:"service_name"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Pipeline: PipelineConfig{Options: transcript.DefaultOptions()},
		Learning: LearningConfig{MaintenanceInterval: 100},
		Observe:  ObserveConfig{Metrics: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields that have a non-zero default.
// Boolean switches and the maintenance interval are left alone because
// their zero value is meaningful; [Default] sets those.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8420"
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = DefaultDataDir()
	}
	if cfg.Storage.Backend == BackendSQLite && cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(cfg.Storage.Dir, "dikte.db")
	}
	if cfg.Pipeline.Language == "" {
		cfg.Pipeline.Language = "tr"
	}
	if cfg.Observe.ServiceName == "" {
		cfg.Observe.ServiceName = "dikte"
	}
}

// DefaultDataDir returns the per-user data directory, falling back to
// ".dikte" in the working directory when the OS reports none.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "dikte")
	}
	return ".dikte"
}
