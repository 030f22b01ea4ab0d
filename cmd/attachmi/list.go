package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
	"attachmi/internal/state"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attachments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				attachments, err := client.ListAttachments(cmd.Context())
				if err != nil {
					return err
				}
				// Local narrowing; the session search text is untouched.
				if search != "" {
					attachments = state.Filter(attachments, search)
				}
				if *jsonOutput {
					return writeJSON(attachments)
				}
				return writeAttachmentList(attachments)
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by normalized substring match")
	return cmd
}
