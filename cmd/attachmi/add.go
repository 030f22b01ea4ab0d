package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
)

func newAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a file as a new attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath := args[0]
			file, err := os.Open(filePath)
			if err != nil {
				return err
			}
			defer file.Close()

			displayName := strings.TrimSpace(name)
			if displayName == "" {
				displayName = filepath.Base(filePath)
			}

			return withClient(cfg, func(client *api.Client) error {
				created, err := client.UploadAttachment(cmd.Context(), displayName, filepath.Base(filePath), file)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(created)
				}
				return writePlain("%d\n", created.ID)
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (defaults to the file name)")
	return cmd
}
