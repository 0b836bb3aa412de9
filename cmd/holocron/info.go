package main

import (
	"fmt"

	"github.com/holocron-tools/holocron/internal/installation"
	"github.com/holocron-tools/holocron/internal/utils"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show installation identity and per-location inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := installation.Open(cfg.Path)
		if err != nil {
			return fmt.Errorf("opening installation: %w", err)
		}

		fmt.Printf("root: %s\n", inst.Root())
		if game, err := inst.Identity(); err != nil {
			fmt.Println("game: undetermined")
		} else {
			fmt.Printf("game: %s\n", game)
		}

		chitin, err := inst.ChitinResources()
		if err != nil {
			return fmt.Errorf("loading chitin index: %w", err)
		}
		fmt.Printf("chitin: %s resources\n", utils.Number(int64(len(chitin))))

		lists := []struct {
			label string
			names func() ([]string, error)
		}{
			{"modules", inst.ModuleNames},
			{"lips", inst.LipNames},
			{"rims", inst.RimNames},
			{"texture packs", inst.TexturePackNames},
			{"override dirs", inst.OverrideList},
		}
		for _, list := range lists {
			names, err := list.names()
			if err != nil {
				return fmt.Errorf("listing %s: %w", list.label, err)
			}
			fmt.Printf("%s: %d\n", list.label, len(names))
		}
		return nil
	},
}
