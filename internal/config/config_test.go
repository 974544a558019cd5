package config_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/MrWong99/dikte/internal/config"
	"github.com/MrWong99/dikte/internal/storage"
)

// ── helpers ──────────────────────────────────────────────────────────────────

const sampleYAML = `
server:
  listen_addr: ":9090"
  log_level: debug

storage:
  backend: sqlite
  dir: /var/lib/dikte

pipeline:
  language: en
  turkish_corrections: true
  hallucination_filter: true
  auto_punctuation: true
  auto_capitalization: false
  preserve_english_words: true
  auto_comma: false
  paragraph_break: true

learning:
  maintenance_interval: 25
  journal_path: /var/lib/dikte/feedback.jsonl

observe:
  metrics: false
  service_name: dikte-test
`

func mustLoad(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	return cfg
}

// ── loading ──────────────────────────────────────────────────────────────────

func TestLoadFromReader_Valid(t *testing.T) {
	t.Parallel()
	cfg := mustLoad(t, sampleYAML)

	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("listen_addr: got %q", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogLevel != config.LogDebug {
		t.Errorf("log_level: got %q", cfg.Server.LogLevel)
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		t.Errorf("backend: got %q", cfg.Storage.Backend)
	}
	if want := filepath.Join("/var/lib/dikte", "dikte.db"); cfg.Storage.SQLitePath != want {
		t.Errorf("sqlite_path: got %q, want %q", cfg.Storage.SQLitePath, want)
	}
	if cfg.Pipeline.Language != "en" {
		t.Errorf("language: got %q", cfg.Pipeline.Language)
	}
	if cfg.Pipeline.AutoCapitalization || cfg.Pipeline.AutoComma {
		t.Error("disabled switches should decode as false")
	}
	if !cfg.Pipeline.ParagraphBreak {
		t.Error("paragraph_break should decode as true")
	}
	if cfg.Learning.MaintenanceInterval != 25 {
		t.Errorf("maintenance_interval: got %d", cfg.Learning.MaintenanceInterval)
	}
	if cfg.Learning.JournalPath != "/var/lib/dikte/feedback.jsonl" {
		t.Errorf("journal_path: got %q", cfg.Learning.JournalPath)
	}
	if cfg.Observe.Metrics {
		t.Error("metrics should be disabled")
	}
	if cfg.Observe.ServiceName != "dikte-test" {
		t.Errorf("service_name: got %q", cfg.Observe.ServiceName)
	}
}

func TestLoadFromReader_EmptyIsDefault(t *testing.T) {
	t.Parallel()
	cfg := mustLoad(t, "")
	def := config.Default()

	if d := config.Diff(def, cfg); !d.Empty() {
		t.Errorf("empty document should equal Default(), diff %+v", d)
	}
	if cfg.Server.ListenAddr != ":8420" {
		t.Errorf("listen_addr: got %q, want :8420", cfg.Server.ListenAddr)
	}
	if cfg.Storage.Backend != config.BackendFile {
		t.Errorf("backend: got %q, want file", cfg.Storage.Backend)
	}
	if cfg.Pipeline.Language != "tr" {
		t.Errorf("language: got %q, want tr", cfg.Pipeline.Language)
	}
	if !cfg.Pipeline.HallucinationFilter || !cfg.Pipeline.AutoComma || cfg.Pipeline.ParagraphBreak {
		t.Errorf("pipeline defaults wrong: %+v", cfg.Pipeline.Options)
	}
	if cfg.Learning.MaintenanceInterval != 100 {
		t.Errorf("maintenance_interval: got %d, want 100", cfg.Learning.MaintenanceInterval)
	}
	if !cfg.Observe.Metrics {
		t.Error("metrics should default to enabled")
	}
}

func TestLoadFromReader_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()
	cfg := mustLoad(t, "pipeline:\n  paragraph_break: true\n")

	if !cfg.Pipeline.ParagraphBreak {
		t.Error("paragraph_break should be true")
	}
	if !cfg.Pipeline.AutoPunctuation {
		t.Error("unset switches should keep their defaults")
	}
	if cfg.Pipeline.Language != "tr" {
		t.Errorf("language: got %q, want tr", cfg.Pipeline.Language)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	t.Parallel()
	_, err := config.LoadFromReader(strings.NewReader("pipeline:\n  auto_emoji: true\n"))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

// ── registry ─────────────────────────────────────────────────────────────────

func TestRegistry_Unknown(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()
	_, err := reg.CreateBackend(context.Background(), config.StorageConfig{Backend: config.BackendSQLite})
	if !errors.Is(err, config.ErrBackendNotRegistered) {
		t.Fatalf("expected ErrBackendNotRegistered, got %v", err)
	}
}

func TestRegistry_Registered(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()
	mem := storage.NewMemory()
	var gotDir string
	reg.RegisterBackend(config.BackendFile, func(_ context.Context, cfg config.StorageConfig) (storage.Backend, error) {
		gotDir = cfg.Dir
		return mem, nil
	})

	b, err := reg.CreateBackend(context.Background(), config.StorageConfig{Backend: config.BackendFile, Dir: "/data"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != storage.Backend(mem) {
		t.Error("CreateBackend should return the factory's backend")
	}
	if gotDir != "/data" {
		t.Errorf("factory got dir %q, want /data", gotDir)
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()
	boom := errors.New("boom")
	reg.RegisterBackend(config.BackendPostgres, func(context.Context, config.StorageConfig) (storage.Backend, error) {
		return nil, boom
	})

	_, err := reg.CreateBackend(context.Background(), config.StorageConfig{Backend: config.BackendPostgres})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped factory error, got %v", err)
	}
	if !strings.Contains(err.Error(), "postgres") {
		t.Errorf("error should name the backend, got %v", err)
	}
}

func TestRegistry_Backends(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()
	noop := func(context.Context, config.StorageConfig) (storage.Backend, error) { return nil, nil }
	reg.RegisterBackend(config.BackendSQLite, noop)
	reg.RegisterBackend(config.BackendFile, noop)

	want := []config.Backend{config.BackendFile, config.BackendSQLite}
	if got := reg.Backends(); !slices.Equal(got, want) {
		t.Errorf("Backends() = %v, want %v", got, want)
	}
}
