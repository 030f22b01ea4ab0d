package main

import (
	"github.com/spf13/cobra"

	"attachmi/internal/api"
	"attachmi/internal/config"
	"attachmi/internal/state"
)

// The session commands operate on the server's live view: the search
// text and the current selection.
func newSessionCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and drive the server's search and selection",
	}

	cmd.AddCommand(
		newSessionStateCmd(cfg, jsonOutput),
		newSessionSearchCmd(cfg, jsonOutput),
		newSessionSelectCmd(cfg, jsonOutput),
		newSessionNextCmd(cfg, jsonOutput),
		newSessionPrevCmd(cfg, jsonOutput),
	)
	return cmd
}

func writeSessionResult(jsonOutput bool, snap state.Snapshot) error {
	if jsonOutput {
		return writeJSON(snap)
	}
	return writeSnapshot(snap)
}

func newSessionStateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				snap, err := client.State(cmd.Context())
				if err != nil {
					return err
				}
				return writeSessionResult(*jsonOutput, snap)
			})
		},
	}
}

func newSessionSearchCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "search [text]",
		Short: "Set the session search text (no argument clears it)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return withClient(cfg, func(client *api.Client) error {
				snap, err := client.SetSearch(cmd.Context(), text)
				if err != nil {
					return err
				}
				return writeSessionResult(*jsonOutput, snap)
			})
		},
	}
}

func newSessionSelectCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "select [id]",
		Short: "Select an attachment (no argument clears the selection)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id *int64
			if len(args) == 1 {
				parsed, err := parseIDArg(args[0])
				if err != nil {
					return err
				}
				id = &parsed
			}
			return withClient(cfg, func(client *api.Client) error {
				snap, err := client.Select(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeSessionResult(*jsonOutput, snap)
			})
		},
	}
}

func newSessionNextCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Select the next attachment in the filtered view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				snap, err := client.SelectNext(cmd.Context())
				if err != nil {
					return err
				}
				return writeSessionResult(*jsonOutput, snap)
			})
		},
	}
}

func newSessionPrevCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "prev",
		Aliases: []string{"previous"},
		Short:   "Select the previous attachment in the filtered view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				snap, err := client.SelectPrevious(cmd.Context())
				if err != nil {
					return err
				}
				return writeSessionResult(*jsonOutput, snap)
			})
		},
	}
}
