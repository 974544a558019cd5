// Command dikte normalises speech-recognition transcripts and learns the
// user's corrections over time.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrWong99/dikte/internal/app"
	"github.com/MrWong99/dikte/internal/config"
	"github.com/MrWong99/dikte/internal/storage"
	"github.com/MrWong99/dikte/internal/storage/postgres"
	"github.com/MrWong99/dikte/internal/storage/sqlite"
)

var version = "0.1.0-dev"

// EnvConfig names the config file when --config is not given.
const EnvConfig = "DIKTE_CONFIG"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dikte: %v\n", err)
		return 1
	}
	return 0
}

// cli carries the state shared by all subcommands. It is populated by the
// root command's PersistentPreRunE.
type cli struct {
	configPath string
	logLevel   string
	jsonOut    bool

	cfg   *config.Config
	level *slog.LevelVar
	log   *slog.Logger
	reg   *config.Registry

	// getenv is os.Getenv outside tests.
	getenv func(string) string
}

func newRootCmd() *cobra.Command {
	return newRoot(&cli{getenv: os.Getenv})
}

func newRoot(c *cli) *cobra.Command {

	root := &cobra.Command{
		Use:   "dikte",
		Short: "Adaptive correction and text normalisation for dictation",
		Long: `dikte turns raw speech-recognition output into finished text and learns
from the corrections you make.

It filters recogniser hallucinations, restores Turkish characters, applies
the corrections it has learned, punctuates and capitalises. Edits you make
to its output teach it new corrections, which move from Pending through
Confirmed to Active as they are seen again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.setup()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to the YAML configuration file (env "+EnvConfig+")")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override the configured log level")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		newProcessCmd(c),
		newLearnCmd(c),
		newCorrectionsCmd(c),
		newResetCmd(c),
		newPromptCmd(c),
		newProfileCmd(c),
		newDomainCmd(c),
		newNgramsCmd(c),
		newHistoryCmd(c),
		newServeCmd(c),
		newMCPServerCmd(c),
	)
	return root
}

// setup loads .env, the config file and environment overrides, and
// installs the logger.
func (c *cli) setup() error {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if c.configPath == "" {
		c.configPath = c.getenv(EnvConfig)
	}
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("config file %q not found", c.configPath)
			}
			return err
		}
		c.cfg = cfg
	} else {
		c.cfg = config.Default()
	}
	c.prepare(c.cfg)
	if err := config.Validate(c.cfg); err != nil {
		return err
	}

	c.level = new(slog.LevelVar)
	c.level.Set(app.ParseLevel(c.cfg.Server.LogLevel))
	c.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.level}))
	slog.SetDefault(c.log)

	c.reg = config.NewRegistry()
	registerBackends(c.reg)
	return nil
}

// prepare applies environment and flag overrides to a freshly loaded config.
func (c *cli) prepare(cfg *config.Config) {
	config.ApplyEnv(cfg, c.getenv)
	if c.logLevel != "" {
		cfg.Server.LogLevel = config.LogLevel(c.logLevel)
	}
}

// withApp opens the application, runs fn and shuts the application down,
// saving its state.
func (c *cli) withApp(ctx context.Context, fn func(*app.App) error, opts ...app.Option) error {
	opts = append([]app.Option{app.WithLogger(c.log), app.WithLevelVar(c.level)}, opts...)
	a, err := app.New(ctx, c.cfg, c.reg, opts...)
	if err != nil {
		return err
	}
	runErr := fn(a)
	shutdownErr := a.Shutdown(context.WithoutCancel(ctx))
	return errors.Join(runErr, shutdownErr)
}

// ── Backends ─────────────────────────────────────────────────────────────────

// registerBackends wires the built-in storage backends into reg.
func registerBackends(reg *config.Registry) {
	reg.RegisterBackend(config.BackendFile, func(_ context.Context, sc config.StorageConfig) (storage.Backend, error) {
		b, err := storage.NewFileBackend(sc.Dir)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
	reg.RegisterBackend(config.BackendSQLite, func(ctx context.Context, sc config.StorageConfig) (storage.Backend, error) {
		if err := os.MkdirAll(filepath.Dir(sc.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		b, err := sqlite.Open(ctx, sc.SQLitePath)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
	reg.RegisterBackend(config.BackendPostgres, func(ctx context.Context, sc config.StorageConfig) (storage.Backend, error) {
		b, err := postgres.Open(ctx, sc.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}
