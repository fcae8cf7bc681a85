package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "state.json"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Empty(t, got.Resources)
}

func TestLoadEmptyFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s := NewStore(path)
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "sub", "state.json"))

	st := sdk.NewState()
	st.Resources["user.a"] = sdk.Resource{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
		Spec:    map[string]interface{}{"age": float64(30)},
	}

	require.NoError(t, s.Save(st))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, st.Resources["user.a"].Address, got.Resources["user.a"].Address)
}

func TestSaveWritesOwnerOnlyPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	s := NewStore(path)

	require.NoError(t, s.Save(sdk.NewState()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLockUnlockRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "state.json"))

	require.NoError(t, s.Lock())
	_, err := os.Stat(s.lockPath)
	require.NoError(t, err)

	require.NoError(t, s.Unlock())
	_, err = os.Stat(s.lockPath)
	assert.True(t, os.IsNotExist(err))
}

func TestUnlockWithoutLockIsNoop(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "state.json"))
	assert.NoError(t, s.Unlock())
}

func TestWithLockReleasesOnError(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "state.json"))

	err := s.WithLock(func() error {
		return assert.AnError
	})
	assert.Error(t, err)

	_, statErr := os.Stat(s.lockPath)
	assert.True(t, os.IsNotExist(statErr))
}
