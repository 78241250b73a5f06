package system

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entnt/dentdesk/internal/app"
	"github.com/entnt/dentdesk/internal/seed"
	"github.com/entnt/dentdesk/internal/store"
)

func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the reference dataset into any absent collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(st store.Store) error {
				if err := seed.EnsureDefaults(context.Background(), st); err != nil {
					return err
				}
				fmt.Println("Reference data is in place.")
				return nil
			})
		},
	}
}
