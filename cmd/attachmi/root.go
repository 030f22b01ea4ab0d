package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"attachmi/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "attachmi",
		Short: "Attachmi manages file attachments with searchable metadata and collections",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newAddCmd(cfg, &jsonOutput),
		newNoteCmd(cfg, &jsonOutput),
		newListCmd(cfg, &jsonOutput),
		newShowCmd(cfg, &jsonOutput),
		newUpdateCmd(cfg, &jsonOutput),
		newDeleteCmd(cfg),
		newOpenCmd(cfg),
		newDownloadCmd(cfg, &jsonOutput),
		newCollectionCmd(cfg, &jsonOutput),
		newSessionCmd(cfg, &jsonOutput),
		newExportCmd(cfg),
		newImportCmd(cfg, &jsonOutput),
		newSweepCmd(cfg, &jsonOutput),
		newInfoCmd(cfg, &jsonOutput),
		newMigrateCmd(cfg, &jsonOutput),
		newConfigCmd(cfg),
	)

	return cmd
}
