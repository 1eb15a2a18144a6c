package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/database"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schema"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить схему БД",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer log.Close()

			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := schema.Apply(cmd.Context(), db, cfg.Database.Driver); err != nil {
				return err
			}

			log.Info("Database schema applied: driver=%s", cfg.Database.Driver)
			return nil
		},
	}
}
