package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/froyo-sdk/provider-sdk/pkg/rpc"
)

func newDescribeCommand() *cobra.Command {
	var name, version string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the OpenRPC document for the six-method provider contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := rpc.NewDocument(name, version)
			encoded, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format document: %w", err)
			}
			fmt.Println(string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "froyoctl", "provider name to stamp the document with")
	cmd.Flags().StringVar(&version, "version", "dev", "provider version to stamp the document with")

	return cmd
}
