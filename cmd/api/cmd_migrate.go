package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/perfumes-admin-api/internal/infrastructure/postgres"
)

// perfumes-api migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes de PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := postgres.Migrate(ctx, pool, log)
		if err != nil {
			return err
		}
		log.Info().Int("applied", applied).Msg("migraciones al día")
		return nil
	},
}
