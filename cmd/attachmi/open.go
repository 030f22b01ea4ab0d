package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
)

func newOpenCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open the attachment's file with the default application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				return client.OpenAttachment(cmd.Context(), id)
			})
		},
	}
}
