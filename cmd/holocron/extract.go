package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/holocron-tools/holocron/internal/capsule"
	"github.com/holocron-tools/holocron/internal/installation"
	"github.com/holocron-tools/holocron/internal/resource"
	"github.com/holocron-tools/holocron/internal/utils"
	"github.com/spf13/cobra"
)

var (
	extractOut    string
	extractModule string
)

var extractCmd = &cobra.Command{
	Use:   "extract [<resref.ext>...]",
	Short: "Extract resources to loose files",
	Long: `Extract resolves the named resources with the default priority order and
writes each winner's bytes to the output directory. With --module, the
members of one module capsule are extracted instead; resource arguments
then filter the member list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		inst, err := installation.Open(cfg.Path)
		if err != nil {
			return fmt.Errorf("opening installation: %w", err)
		}
		if err := os.MkdirAll(extractOut, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		var queries []resource.Identifier
		var opts *installation.SearchOptions

		if extractModule != "" {
			queries, opts, err = moduleQueries(inst, extractModule, args)
			if err != nil {
				return err
			}
		} else {
			if len(args) == 0 {
				return fmt.Errorf("nothing to extract: name resources or pass --module")
			}
			for _, arg := range args {
				id := resource.IdentifierFromFilename(arg)
				if !id.Type().Valid() {
					return fmt.Errorf("unrecognized resource type in %q", arg)
				}
				queries = append(queries, id)
			}
		}

		results, err := inst.Resources(queries, opts)
		if err != nil {
			return fmt.Errorf("resolving resources: %w", err)
		}

		progress := utils.NewProgress(len(queries), !cfg.NoProgress)
		written, missing := 0, 0
		var bytes int64
		for i, id := range queries {
			progress.Update(i+1, id.String())
			res := results[id]
			if res == nil {
				slog.Warn("resource not found", "resource", id)
				missing++
				continue
			}
			dest := filepath.Join(extractOut, id.Filename())
			if err := os.WriteFile(dest, res.Data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			written++
			bytes += int64(len(res.Data))
		}
		progress.Finish()

		slog.Info("extraction complete",
			"written", written,
			"missing", missing,
			"bytes", utils.Bytes(bytes),
			"elapsed", utils.Duration(time.Since(start)))
		return nil
	},
}

// moduleQueries opens one module capsule from the installation and
// returns its member identifiers as queries, restricted to the capsule
// itself so the extraction reflects exactly that file's contents.
func moduleQueries(inst *installation.Installation, module string, filter []string) ([]resource.Identifier, *installation.SearchOptions, error) {
	names, err := inst.ModuleNames()
	if err != nil {
		return nil, nil, fmt.Errorf("listing modules: %w", err)
	}

	var members []resource.FileResource
	for _, name := range names {
		if strings.EqualFold(name, module) {
			members, err = inst.ModuleResources(name)
			if err != nil {
				return nil, nil, err
			}
			break
		}
	}
	if members == nil {
		return nil, nil, fmt.Errorf("module %s not found (known: %d)", module, len(names))
	}

	wanted := make(map[resource.Identifier]bool, len(filter))
	for _, arg := range filter {
		wanted[resource.IdentifierFromFilename(arg)] = true
	}

	var queries []resource.Identifier
	var capsulePath string
	for _, member := range members {
		capsulePath = member.Path()
		if len(wanted) > 0 && !wanted[member.Identifier()] {
			continue
		}
		queries = append(queries, member.Identifier())
	}

	caps, err := capsule.Open(capsulePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening module capsule: %w", err)
	}
	opts := &installation.SearchOptions{
		Order:    []installation.SearchLocation{installation.SearchCustomModules},
		Capsules: []*capsule.Capsule{caps},
	}
	return queries, opts, nil
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "extracted", "output directory")
	extractCmd.Flags().StringVarP(&extractModule, "module", "m", "", "extract the members of this module capsule")
}
