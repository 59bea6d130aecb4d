package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/plugplayers/internal/mcp"
	"github.com/honeycarbs/plugplayers/internal/seed"
	"github.com/honeycarbs/plugplayers/internal/tracing"
	"github.com/honeycarbs/plugplayers/pkg/shutdown"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP HTTP server",
	Long:  `Serves MCP over streamable HTTP at /mcp/stream, plus /healthz, /metrics and the REST API when JWT_SECRET is set.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stopTracing, err := tracing.Setup(ctx, "plugplayers", cfg.Tracing.Endpoint)
	if err != nil {
		logger.Warn("tracing disabled", "err", err)
	}

	res, cleanup, err := mcp.InitializeResources(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize resources: %w", err)
	}

	if cfg.SeedDemo {
		ds, err := seed.Demo()
		if err != nil {
			cleanup()
			return err
		}
		if _, err := seed.NewLoader(res.Repos, seed.WithLogger(logger.Named("seed"))).Load(ctx, ds); err != nil {
			cleanup()
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	srv := mcp.NewServer(logger, cfg, res)

	go shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		shutdownTimeout,
		logger,
		srv,
		stopTracing,
		shutdown.Func(func(context.Context) error {
			cleanup()
			return nil
		}),
	)

	logger.Info("MCP server initialized and starting", "addr", cfg.Addr(), "storage", cfg.Storage.Driver, "api", cfg.APIEnabled())

	if err := srv.Run(); err != nil {
		logger.Error("MCP server exited with error", "err", err)
		return err
	}
	logger.Info("MCP server stopped")
	return nil
}
