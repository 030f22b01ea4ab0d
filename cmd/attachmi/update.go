package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
)

func newUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var name, date, description, notes string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update attachment metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				current, err := client.GetAttachment(cmd.Context(), id)
				if err != nil {
					return err
				}

				req := api.AttachmentUpdateRequest{
					Name:        current.Name,
					Date:        current.Date,
					Description: current.Description,
					Notes:       current.Notes,
				}
				if cmd.Flags().Changed("name") {
					req.Name = name
				}
				if cmd.Flags().Changed("date") {
					req.Date = date
				}
				if cmd.Flags().Changed("description") {
					req.Description = description
				}
				if cmd.Flags().Changed("notes") {
					req.Notes = notes
				}

				updated, err := client.UpdateAttachment(cmd.Context(), id, req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(updated)
				}
				return writeAttachmentDetail(updated, nil)
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}
