package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/froyo-sdk/provider-sdk/pkg/provider"
	"github.com/froyo-sdk/provider-sdk/pkg/rpc"
	"github.com/froyo-sdk/provider-sdk/pkg/runs"
	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

func newApplyCommand() *cobra.Command {
	var (
		providerPath  string
		workspacePath string
		desiredPath   string
		currentPath   string
		runsDBPath    string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Plan and apply against a provider binary, recording the run's outcome",
		Long: `apply spawns a provider binary, calls its plan method against the
desired/current state files given by --desired/--current, applies the
resulting changes, and records the run and each change's outcome in a
local SQLite run-history database (--runs-db).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			logger, err := rootLogger("froyoctl.apply")
			if err != nil {
				return err
			}

			desired, err := readResourceFile(desiredPath)
			if err != nil {
				return fmt.Errorf("failed to read --desired: %w", err)
			}
			current, err := readResourceFile(currentPath)
			if err != nil {
				return fmt.Errorf("failed to read --current: %w", err)
			}

			client := rpc.NewClient(rpc.NewLocalTransport(providerPath))
			if err := client.Start(ctx); err != nil {
				return fmt.Errorf("failed to start provider %q: %w", providerPath, err)
			}
			defer client.Close()

			store, err := runs.NewStore(runs.Config{Path: runsDBPath})
			if err != nil {
				return fmt.Errorf("failed to configure run store: %w", err)
			}
			if err := store.Init(ctx); err != nil {
				return fmt.Errorf("failed to open run store: %w", err)
			}
			defer store.Close()

			meta, err := callMetadata(client)
			if err != nil {
				return err
			}

			run := &runs.Run{
				ID:              uuid.NewString(),
				ProviderName:    meta.Name,
				ProviderVersion: meta.Version,
				WorkspacePath:   workspacePath,
				Status:          runs.RunStatusRunning,
				StartedAt:       time.Now(),
			}
			if err := store.CreateRun(ctx, run); err != nil {
				return fmt.Errorf("failed to record run start: %w", err)
			}
			logger.WithField("run_id", run.ID).Info("run started")

			changes, err := callPlan(client, provider.PlanRequest{
				WorkspacePath: workspacePath,
				DesiredState:  desired,
				CurrentState:  current,
			})
			if err != nil {
				failMsg := err.Error()
				_ = store.UpdateRunStatus(ctx, run.ID, runs.RunStatusFailed, &failMsg)
				return fmt.Errorf("plan failed: %w", err)
			}
			logger.WithField("changes", len(changes)).Info("plan computed")

			applyResp, err := callApply(client, provider.ApplyRequest{Changes: changes})
			if err != nil {
				failMsg := err.Error()
				_ = store.UpdateRunStatus(ctx, run.ID, runs.RunStatusFailed, &failMsg)
				return fmt.Errorf("apply failed: %w", err)
			}

			failed := make(map[string]string, len(applyResp.FailedAddresses))
			for _, fa := range applyResp.FailedAddresses {
				failed[fa.Address.String()] = fa.Message
			}
			for _, c := range changes {
				outcome := runs.OutcomeSucceeded
				var changeErr *string
				if msg, isFailed := failed[c.Address.String()]; isFailed {
					outcome = runs.OutcomeFailed
					changeErr = &msg
				}
				if err := store.RecordChange(ctx, &runs.RunChange{
					ID:         uuid.NewString(),
					RunID:      run.ID,
					Address:    c.Address.String(),
					ChangeType: c.ChangeType,
					Outcome:    outcome,
					Error:      changeErr,
				}); err != nil {
					return fmt.Errorf("failed to record change outcome: %w", err)
				}
			}

			finalStatus := runs.RunStatusCompleted
			if len(applyResp.FailedAddresses) > 0 {
				finalStatus = runs.RunStatusFailed
			}
			if err := store.UpdateRunStatus(ctx, run.ID, finalStatus, nil); err != nil {
				return fmt.Errorf("failed to record run completion: %w", err)
			}

			logger.WithField("run_id", run.ID).WithField("status", string(finalStatus)).Info("run finished")
			fmt.Printf("run %s: %s (%d succeeded, %d failed)\n",
				run.ID, finalStatus, len(applyResp.SuccessfulAddresses), len(applyResp.FailedAddresses))
			return nil
		},
	}

	cmd.Flags().StringVar(&providerPath, "provider", "", "path to the provider binary to spawn")
	cmd.Flags().StringVar(&workspacePath, "workspace", ".", "workspace path passed to plan")
	cmd.Flags().StringVar(&desiredPath, "desired", "", "path to a JSON file containing the desired []sdk.Resource array")
	cmd.Flags().StringVar(&currentPath, "current", "", "path to a JSON file containing the current []sdk.Resource array (default: empty)")
	cmd.Flags().StringVar(&runsDBPath, "runs-db", "froyoctl-runs.db", "path to the run-history SQLite database")
	cmd.MarkFlagRequired("provider")
	cmd.MarkFlagRequired("desired")

	return cmd
}

func readResourceFile(path string) ([]sdk.Resource, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resources []sdk.Resource
	if err := json.Unmarshal(content, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func callMetadata(client *rpc.Client) (provider.Metadata, error) {
	result, err := client.Call("metadata", struct{}{})
	if err != nil {
		return provider.Metadata{}, fmt.Errorf("metadata call failed: %w", err)
	}
	var meta provider.Metadata
	if err := json.Unmarshal(result, &meta); err != nil {
		return provider.Metadata{}, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return meta, nil
}

func callPlan(client *rpc.Client, req provider.PlanRequest) ([]sdk.Change, error) {
	result, err := client.Call("plan", req)
	if err != nil {
		return nil, err
	}
	var resp provider.PlanResponse
	if err := json.Unmarshal(result, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode plan response: %w", err)
	}
	return resp.Changes, nil
}

func callApply(client *rpc.Client, req provider.ApplyRequest) (provider.ApplyResponse, error) {
	result, err := client.Call("apply", req)
	if err != nil {
		return provider.ApplyResponse{}, err
	}
	var resp provider.ApplyResponse
	if err := json.Unmarshal(result, &resp); err != nil {
		return provider.ApplyResponse{}, fmt.Errorf("failed to decode apply response: %w", err)
	}
	return resp, nil
}
