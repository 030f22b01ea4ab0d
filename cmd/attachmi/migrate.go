package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/config"
	"attachmi/internal/store"
)

func newMigrateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.OpenRaw(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			plan, err := store.MigrationPlan(db)
			if err != nil {
				return err
			}

			if dryRun {
				if *jsonOutput {
					return writeJSON(plan)
				}
				if len(plan.Pending) == 0 {
					return writePlain("database is up to date (version %d)\n", plan.CurrentVersion)
				}
				for _, m := range plan.Pending {
					if err := writePlain("%d: %s\n", m.Version, m.Description); err != nil {
						return err
					}
				}
				return writePlain("%d migration(s) pending\n", len(plan.Pending))
			}

			if err := store.RunMigrations(db); err != nil {
				return err
			}

			applied, err := store.MigrationPlan(db)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return writeJSON(applied)
			}
			return writePlain("database at version %d\n", applied.CurrentVersion)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show pending migrations without applying them")
	return cmd
}
