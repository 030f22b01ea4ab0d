package main

import (
	"os"

	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
	"attachmi/internal/format"
	"attachmi/internal/models"
)

func newExportCmd(cfg *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all attachments and collections as a YAML catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				catalog, err := buildCatalog(cmd, client)
				if err != nil {
					return err
				}

				out := os.Stdout
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					out = f
				}

				return format.YAMLFormatter{}.Write(out, catalog)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func buildCatalog(cmd *cobra.Command, client *api.Client) (models.Catalog, error) {
	var catalog models.Catalog

	attachments, err := client.ListAttachments(cmd.Context())
	if err != nil {
		return catalog, err
	}
	catalog.Attachments = attachments

	collections, err := client.ListCollections(cmd.Context())
	if err != nil {
		return catalog, err
	}
	for _, col := range collections {
		members, err := client.CollectionAttachments(cmd.Context(), col.ID)
		if err != nil {
			return catalog, err
		}
		entry := models.CatalogCollection{Name: col.Name}
		for _, m := range members {
			entry.Members = append(entry.Members, m.ID)
		}
		catalog.Collections = append(catalog.Collections, entry)
	}

	return catalog, nil
}
