package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
)

func newDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an attachment, its file, and its collection memberships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				return client.DeleteAttachment(cmd.Context(), id)
			})
		},
	}
}
