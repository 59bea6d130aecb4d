package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/plugplayers/internal/mcp"
	"github.com/honeycarbs/plugplayers/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture data into the configured store",
	Long:  `Loads the built-in demo marketplace, or a YAML fixture given with --file. Existing ids are skipped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		file, _ := cmd.Flags().GetString("file")
		ds, err := loadDataset(file)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		res, cleanup, err := mcp.InitializeResources(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize resources: %w", err)
		}
		defer cleanup()

		result, err := seed.NewLoader(res.Repos, seed.WithLogger(logger.Named("seed"))).Load(ctx, ds)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", result.Created, result.Skipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("file", "", "YAML fixture file (defaults to the built-in demo data)")
}

func loadDataset(path string) (seed.Dataset, error) {
	if path == "" {
		return seed.Demo()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return seed.Dataset{}, fmt.Errorf("read fixture: %w", err)
	}
	return seed.Parse(data)
}
