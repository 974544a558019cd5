package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrWong99/dikte/internal/app"
	"github.com/MrWong99/dikte/internal/config"
	"github.com/MrWong99/dikte/internal/mcp"
	"github.com/MrWong99/dikte/internal/observe"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the correction engine over HTTP with health probes and, when
observe.metrics is enabled, Prometheus metrics on /metrics.

When started with --config the file is watched; log level and pipeline
changes are applied without a restart.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			prepare := func(cfg *config.Config) {
				c.prepare(cfg)
				if addr != "" {
					cfg.Server.ListenAddr = addr
				}
			}
			if addr != "" {
				c.cfg.Server.ListenAddr = addr
			}

			var opts []app.Option
			if c.cfg.Observe.Metrics {
				provider, err := observe.InitProvider(ctx, observe.ProviderConfig{
					ServiceName:       c.cfg.Observe.ServiceName,
					ServiceVersion:    version,
					RuntimeCollectors: true,
				})
				if err != nil {
					return fmt.Errorf("init telemetry: %w", err)
				}
				defer func() {
					if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
						c.log.Warn("telemetry shutdown", "err", err)
					}
				}()
				m, err := provider.Metrics()
				if err != nil {
					return fmt.Errorf("init metrics: %w", err)
				}
				opts = append(opts, app.WithMetrics(m), app.WithMetricsHandler(provider.Handler()))
			}

			return c.withApp(ctx, func(a *app.App) error {
				if c.configPath != "" {
					w, err := config.NewWatcher(c.configPath, a.ApplyConfig,
						config.WithPrepare(prepare),
						config.WithWatcherLogger(c.log),
					)
					if err != nil {
						return err
					}
					defer w.Stop()
				}
				return a.Serve(ctx)
			}, opts...)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.listen_addr")
	return cmd
}

func newMCPServerCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Expose the engine as MCP tools over stdio",
		Long: `Run an MCP server on stdin/stdout so that editors and assistants can
process transcripts, learn from edits and inspect corrections.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				srv := mcp.NewServer(a.Engine(),
					mcp.WithVersion(version),
					mcp.WithLogger(c.log),
				)
				return srv.Run(cmd.Context())
			})
		},
	}
}
