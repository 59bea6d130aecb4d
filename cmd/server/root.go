package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/plugplayers/internal/config"
	"github.com/honeycarbs/plugplayers/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "plugplayers",
	Short: "Plug Players hiring lifecycle server",
	Long:  `Runs the Application, Interview, Contract and Payment lifecycle behind MCP tools and an optional REST API.`,
	// running the binary with no subcommand serves
	RunE: runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd)
}

// bootstrap loads config and the logger shared by every subcommand
func bootstrap() (config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to load config: %w", err)
	}
	opts := []logging.Option{logging.WithFields("service", "plugplayers")}
	if cfg.LogFormat == "console" {
		opts = append(opts, logging.WithConsole())
	}
	return cfg, logging.New(cfg.LogLevel, opts...), nil
}
