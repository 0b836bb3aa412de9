package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/holocron-tools/holocron/internal/catalog"
	"github.com/holocron-tools/holocron/internal/installation"
	"github.com/holocron-tools/holocron/internal/utils"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Export the resolved resource index to a SQLite database",
	Long: `Catalog walks every cacheable search location of the installation and
writes one row per resource descriptor to a SQLite database, recording
the location category, the containing file, and the byte range. The
database also carries a per-location summary view.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		start := time.Now()

		inst, err := installation.Open(cfg.Path)
		if err != nil {
			return fmt.Errorf("opening installation: %w", err)
		}

		entries, err := catalog.Walk(inst)
		if err != nil {
			return fmt.Errorf("walking installation: %w", err)
		}
		slog.Info("installation walked", "resources", utils.Number(int64(len(entries))))

		cat, err := catalog.New(catalog.DefaultOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("creating catalog: %w", err)
		}
		defer cat.Close()

		count, err := cat.Count(ctx)
		if err != nil {
			return fmt.Errorf("checking catalog: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("catalog %s already contains %d resources", cfg.Database, count)
		}

		if err := cat.Insert(ctx, entries); err != nil {
			return fmt.Errorf("inserting entries: %w", err)
		}

		slog.Info("catalog complete",
			"database", cfg.Database,
			"rows", utils.Number(int64(len(entries))),
			"elapsed", utils.Duration(time.Since(start)))
		return nil
	},
}
