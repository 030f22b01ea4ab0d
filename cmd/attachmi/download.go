package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
)

func newDownloadCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "download <id>",
		Short: "Copy the attachment's file to the downloads directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.DownloadAttachment(cmd.Context(), id)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				if resp.Cancelled {
					return writePlain("cancelled\n")
				}
				return writePlain("%s\n", resp.Dest)
			})
		},
	}
}
