package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
)

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server and storage information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				info, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(info)
				}
				if err := writePlain("version:     %s\n", info.Version); err != nil {
					return err
				}
				if err := writePlain("database:    %s\n", info.DBPath); err != nil {
					return err
				}
				if err := writePlain("blob dir:    %s\n", info.BlobDir); err != nil {
					return err
				}
				if err := writePlain("attachments: %d\n", info.AttachmentCount); err != nil {
					return err
				}
				return writePlain("collections: %d\n", info.CollectionCount)
			})
		},
	}
}
