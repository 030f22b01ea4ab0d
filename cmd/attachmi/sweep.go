package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
)

func newSweepCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Find blobs no attachment references, optionally deleting them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				result, err := client.Sweep(cmd.Context(), apply)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(result)
				}
				for _, name := range result.Orphans {
					if err := writePlain("%s\n", name); err != nil {
						return err
					}
				}
				if result.DryRun {
					return writePlain("%d orphan(s) found (dry run, use --apply to delete)\n", result.Candidates)
				}
				return writePlain("%d orphan(s) found, %d deleted, %d failed\n", result.Candidates, result.Deleted, result.Failed)
			})
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "delete the orphaned blobs instead of just listing them")
	return cmd
}
