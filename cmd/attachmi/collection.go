package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
)

func newCollectionCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Manage collections",
	}

	cmd.AddCommand(
		newCollectionListCmd(cfg, jsonOutput),
		newCollectionCreateCmd(cfg, jsonOutput),
		newCollectionDeleteCmd(cfg),
		newCollectionShowCmd(cfg, jsonOutput),
		newCollectionAddCmd(cfg),
		newCollectionRemoveCmd(cfg),
	)
	return cmd
}

func newCollectionListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections with member counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				collections, err := client.ListCollections(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(collections)
				}
				return writeCollectionList(collections)
			})
		},
	}
}

func newCollectionCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				created, err := client.CreateCollection(cmd.Context(), api.CollectionCreateRequest{Name: args[0]})
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
}

func newCollectionDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a collection (attachments are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				return client.DeleteCollection(cmd.Context(), id)
			})
		},
	}
}

func newCollectionShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "List the attachments in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				attachments, err := client.CollectionAttachments(cmd.Context(), id)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(attachments)
				}
				return writeAttachmentList(attachments)
			})
		},
	}
}

func newCollectionAddCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add <collection-id> <attachment-id>",
		Short: "Add an attachment to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collectionID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			attachmentID, err := parseIDArg(args[1])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				return client.AddToCollection(cmd.Context(), collectionID, attachmentID)
			})
		},
	}
}

func newCollectionRemoveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <collection-id> <attachment-id>",
		Short: "Remove an attachment from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collectionID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			attachmentID, err := parseIDArg(args[1])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				return client.RemoveFromCollection(cmd.Context(), collectionID, attachmentID)
			})
		},
	}
}
