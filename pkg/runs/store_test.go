package runs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(Config{Path: ":memory:"})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Init(ctx))
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStoreLifecycle(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.HealthCheck(context.Background()))
}

func TestRunCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run := &Run{
		ID:              uuid.NewString(),
		ProviderName:    "pkgprovider",
		ProviderVersion: "1.0.0",
		WorkspacePath:   "/tmp/workspace",
		Status:          RunStatusRunning,
		StartedAt:       time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, run.ProviderName, got.ProviderName)
	require.Equal(t, RunStatusRunning, got.Status)
	require.Nil(t, got.CompletedAt)

	require.NoError(t, store.UpdateRunStatus(ctx, run.ID, RunStatusCompleted, nil))

	got, err = store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, RunStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestGetRunNotFound(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.GetRun(context.Background(), "does-not-exist")
	require.Error(t, err)
}

func TestListRunsOrdersNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		run := &Run{
			ID:              uuid.NewString(),
			ProviderName:    "pkgprovider",
			ProviderVersion: "1.0.0",
			WorkspacePath:   "/tmp/workspace",
			Status:          RunStatusCompleted,
			StartedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.CreateRun(ctx, run))
	}

	runs, err := store.ListRuns(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.True(t, runs[0].StartedAt.After(runs[1].StartedAt) || runs[0].StartedAt.Equal(runs[1].StartedAt))
}

func TestRunChangeCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run := &Run{
		ID:            uuid.NewString(),
		ProviderName:  "pkgprovider",
		WorkspacePath: "/tmp/workspace",
		Status:        RunStatusRunning,
		StartedAt:     time.Now().UTC(),
	}
	require.NoError(t, store.CreateRun(ctx, run))

	ok := &RunChange{
		ID:         uuid.NewString(),
		RunID:      run.ID,
		Address:    "package.nginx",
		ChangeType: sdk.ChangeCreate,
		Outcome:    OutcomeSucceeded,
	}
	require.NoError(t, store.RecordChange(ctx, ok))

	msg := "boom"
	failed := &RunChange{
		ID:         uuid.NewString(),
		RunID:      run.ID,
		Address:    "package.apache2",
		ChangeType: sdk.ChangeDelete,
		Outcome:    OutcomeFailed,
		Error:      &msg,
	}
	require.NoError(t, store.RecordChange(ctx, failed))

	changes, err := store.ListChangesByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	require.Equal(t, "package.nginx", changes[0].Address)
	require.Equal(t, OutcomeFailed, changes[1].Outcome)
	require.NotNil(t, changes[1].Error)
	require.Equal(t, "boom", *changes[1].Error)
}
