package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
	"github.com/froyo-sdk/provider-sdk/pkg/state"
)

func newStateCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and manipulate a local State file",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "terraform.froyostate", "path to the State file")

	cmd.AddCommand(newStateLoadCommand(&path))
	cmd.AddCommand(newStateSaveCommand(&path))
	cmd.AddCommand(newStateLockCommand(&path))
	cmd.AddCommand(newStateUnlockCommand(&path))

	return cmd
}

// resolveStatePath applies --config's state_path when the caller left
// --path at its default.
func resolveStatePath(cmd *cobra.Command, path *string) string {
	if loadedConfig != nil && loadedConfig.StatePath != "" && !cmd.Parent().PersistentFlags().Changed("path") {
		return loadedConfig.StatePath
	}
	return *path
}

func newStateLoadCommand(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Print the State file as JSON (a fresh default State if absent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := state.NewStore(resolveStatePath(cmd, path)).Load()
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format state: %w", err)
			}
			fmt.Println(string(encoded))
			return nil
		},
	}
}

func newStateSaveCommand(path *string) *cobra.Command {
	var resourcesJSON string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Write a State document read from --state (JSON-encoded sdk.State) to the file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var st sdk.State
			if err := json.Unmarshal([]byte(resourcesJSON), &st); err != nil {
				return fmt.Errorf("invalid --state JSON: %w", err)
			}
			return state.NewStore(resolveStatePath(cmd, path)).Save(&st)
		},
	}
	cmd.Flags().StringVar(&resourcesJSON, "state", "", "JSON-encoded sdk.State document to write")
	cmd.MarkFlagRequired("state")

	return cmd
}

func newStateLockCommand(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Acquire the cooperative lock for the State file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.NewStore(resolveStatePath(cmd, path)).Lock()
		},
	}
}

func newStateUnlockCommand(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Release the cooperative lock for the State file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.NewStore(resolveStatePath(cmd, path)).Unlock()
		},
	}
}
