package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/holocron-tools/holocron/internal/installation"
	"github.com/holocron-tools/holocron/internal/resource"
	"github.com/holocron-tools/holocron/internal/utils"
	"github.com/spf13/cobra"
)

var (
	queryAll bool
)

var queryCmd = &cobra.Command{
	Use:   "query <resref.ext> [<resref.ext>...]",
	Short: "Resolve resources and show where they come from",
	Long: `Query resolves one or more resources by name and type and prints every
physical location that could serve each one, highest priority first.
The first line per resource is the copy the game would actually load.

Resources are named like loose files: "c_bantha.utc", "m01aa.are".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := installation.Open(cfg.Path)
		if err != nil {
			return fmt.Errorf("opening installation: %w", err)
		}

		queries := make([]resource.Identifier, 0, len(args))
		for _, arg := range args {
			id := resource.IdentifierFromFilename(arg)
			if !id.Type().Valid() {
				return fmt.Errorf("unrecognized resource type in %q", arg)
			}
			queries = append(queries, id)
		}

		order := installation.DefaultOrder
		if queryAll {
			order = []installation.SearchLocation{
				installation.SearchOverride,
				installation.SearchModules,
				installation.SearchLips,
				installation.SearchRims,
				installation.SearchTexturesTPA,
				installation.SearchTexturesTPB,
				installation.SearchTexturesTPC,
				installation.SearchTexturesGUI,
				installation.SearchMusic,
				installation.SearchSound,
				installation.SearchChitin,
			}
		}

		results, err := inst.Locations(queries, &installation.SearchOptions{Order: order})
		if err != nil {
			return fmt.Errorf("querying locations: %w", err)
		}

		for _, id := range queries {
			list := results[id]
			if len(list) == 0 {
				fmt.Printf("%s: not found\n", id)
				continue
			}
			fmt.Printf("%s: %d location(s)\n", id, len(list))
			for i, loc := range list {
				marker := " "
				if i == 0 {
					marker = "*"
				}
				fmt.Printf("  %s %s @ %d (%s)\n", marker, loc.Path, loc.Offset, utils.Bytes(int64(loc.Size)))
			}
		}

		slog.Debug("query complete", "resources", len(queries), "order", formatOrder(order))
		return nil
	},
}

func formatOrder(order []installation.SearchLocation) string {
	parts := make([]string, len(order))
	for i, loc := range order {
		parts[i] = loc.String()
	}
	return strings.Join(parts, ",")
}

func init() {
	queryCmd.Flags().BoolVarP(&queryAll, "all", "a", false, "search every cacheable location, not just the default order")
}
