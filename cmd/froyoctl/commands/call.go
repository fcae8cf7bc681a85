package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/froyo-sdk/provider-sdk/pkg/rpc"
)

func newCallCommand() *cobra.Command {
	var (
		providerPath string
		paramsJSON   string
	)

	cmd := &cobra.Command{
		Use:   "call <method>",
		Short: "Spawn a provider binary and invoke one JSON-RPC method against it",
		Args:  cobra.ExactArgs(1),
		Example: `  froyoctl call metadata --provider ./pkgprovider
  froyoctl call plan --provider ./pkgprovider --params '{"workspace_path":".","desired_state":[],"current_state":[]}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			method := args[0]

			var params interface{}
			if paramsJSON != "" {
				if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
					return fmt.Errorf("invalid --params JSON: %w", err)
				}
			} else {
				params = map[string]interface{}{}
			}

			client := rpc.NewClient(rpc.NewLocalTransport(providerPath))
			if err := client.Start(cmd.Context()); err != nil {
				return fmt.Errorf("failed to start provider %q: %w", providerPath, err)
			}
			defer client.Close()

			result, err := client.Call(method, params)
			if err != nil {
				return fmt.Errorf("call %q failed: %w", method, err)
			}

			var pretty interface{}
			if err := json.Unmarshal(result, &pretty); err != nil {
				fmt.Println(string(result))
				return nil
			}
			encoded, err := json.MarshalIndent(pretty, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format result: %w", err)
			}
			fmt.Println(string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVar(&providerPath, "provider", "", "path to the provider binary to spawn")
	cmd.Flags().StringVar(&paramsJSON, "params", "", "JSON-encoded params for the method (default: {})")
	cmd.MarkFlagRequired("provider")

	return cmd
}
