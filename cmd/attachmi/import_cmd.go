package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"attachmi/internal/api"
	"attachmi/internal/config"
	"attachmi/internal/models"
)

func newImportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Import attachments and collections from a YAML catalog",
		Long: "Import attachments and collections from a YAML catalog.\n\n" +
			"Records are created fresh; catalog IDs are only used to rebuild\n" +
			"collection membership. File contents are not imported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var catalog models.Catalog
			if err := yaml.Unmarshal(data, &catalog); err != nil {
				return fmt.Errorf("parse catalog: %w", err)
			}

			return withClient(cfg, func(client *api.Client) error {
				// Catalog ID to newly created ID, for membership remapping.
				idMap := make(map[int64]int64, len(catalog.Attachments))

				for _, a := range catalog.Attachments {
					created, err := client.CreateAttachment(cmd.Context(), api.AttachmentCreateRequest{
						Name:        a.Name,
						Date:        a.Date,
						Description: a.Description,
						Notes:       a.Notes,
					})
					if err != nil {
						return fmt.Errorf("import attachment %q: %w", a.Name, err)
					}
					if a.ID > 0 {
						idMap[a.ID] = created.ID
					}
				}

				var skipped int
				for _, col := range catalog.Collections {
					created, err := client.CreateCollection(cmd.Context(), api.CollectionCreateRequest{Name: col.Name})
					if err != nil {
						return fmt.Errorf("import collection %q: %w", col.Name, err)
					}
					for _, oldID := range col.Members {
						newID, ok := idMap[oldID]
						if !ok {
							skipped++
							continue
						}
						if err := client.AddToCollection(cmd.Context(), created.ID, newID); err != nil {
							return fmt.Errorf("add attachment to collection %q: %w", col.Name, err)
						}
					}
				}

				summary := map[string]int{
					"attachments": len(catalog.Attachments),
					"collections": len(catalog.Collections),
					"skipped":     skipped,
				}
				if *jsonOutput {
					return writeJSON(summary)
				}
				if skipped > 0 {
					return writePlain("imported %d attachment(s), %d collection(s); %d membership reference(s) skipped\n",
						len(catalog.Attachments), len(catalog.Collections), skipped)
				}
				return writePlain("imported %d attachment(s), %d collection(s)\n",
					len(catalog.Attachments), len(catalog.Collections))
			})
		},
	}
}
