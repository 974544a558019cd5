package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// SupportedLanguages lists the languages with dedicated locale rules. Other
// codes fall back to generic rules; [Validate] warns about them.
var SupportedLanguages = []string{"tr", "en"}

// Environment variables that override file values.
const (
	EnvLogLevel    = "DIKTE_LOG_LEVEL"
	EnvBackend     = "DIKTE_STORAGE_BACKEND"
	EnvDataDir     = "DIKTE_DATA_DIR"
	EnvPostgresDSN = "DIKTE_POSTGRES_DSN"
	EnvListenAddr  = "DIKTE_LISTEN_ADDR"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of [Default] and
// validates the result. An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	// Dir-dependent defaults are recomputed after decoding.
	cfg.Storage = StorageConfig{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the DIKTE_* variables returned by getenv and
// re-applies defaults. Pass [os.Getenv] in production.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Server.LogLevel = LogLevel(v)
	}
	if v := getenv(EnvListenAddr); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := getenv(EnvBackend); v != "" {
		cfg.Storage.Backend = Backend(v)
	}
	if v := getenv(EnvDataDir); v != "" {
		cfg.Storage.Dir = v
	}
	if v := getenv(EnvPostgresDSN); v != "" {
		cfg.Storage.PostgresDSN = v
		if getenv(EnvBackend) == "" {
			cfg.Storage.Backend = BackendPostgres
		}
	}
	ApplyDefaults(cfg)
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil && (cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "") {
		errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
	}

	// Storage
	switch cfg.Storage.Backend {
	case "", BackendFile:
	case BackendSQLite:
		if cfg.Storage.SQLitePath == "" && cfg.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.sqlite_path or storage.dir is required for the sqlite backend"))
		}
	case BackendPostgres:
		if cfg.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is invalid; valid values: file, sqlite, postgres", cfg.Storage.Backend))
	}
	if cfg.Storage.Backend != BackendPostgres && cfg.Storage.PostgresDSN != "" {
		slog.Warn("storage.postgres_dsn is set but the postgres backend is not selected", "backend", cfg.Storage.Backend)
	}

	// Pipeline
	if lang := cfg.Pipeline.Language; lang != "" && !slices.Contains(SupportedLanguages, lang) {
		slog.Warn("pipeline.language has no dedicated rules; generic punctuation only",
			"language", lang,
			"supported", SupportedLanguages,
		)
	}
	if cfg.Pipeline.AutoComma && !cfg.Pipeline.AutoPunctuation {
		slog.Warn("pipeline.auto_comma has no effect while auto_punctuation is disabled")
	}

	// Learning
	if cfg.Learning.MaintenanceInterval == 0 {
		slog.Warn("learning.maintenance_interval is 0; corrections will never be recalculated or purged")
	}

	return errors.Join(errs...)
}
