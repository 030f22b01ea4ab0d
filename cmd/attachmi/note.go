package main

import (
	"strings"

	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
)

func newNoteCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var date string
	var description string
	var notes string

	cmd := &cobra.Command{
		Use:   "note <name>",
		Short: "Create an attachment without a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				created, err := client.CreateAttachment(cmd.Context(), api.AttachmentCreateRequest{
					Name:        strings.Join(args, " "),
					Date:        date,
					Description: description,
					Notes:       notes,
				})
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

	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}
