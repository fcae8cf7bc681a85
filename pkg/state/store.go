package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

const (
	lockRetryAttempts = 10
	lockRetryDelay    = 100 * time.Millisecond
)

// Store is a file-based State backend with a sibling cooperative lock
// file. A single Store is not safe for concurrent use from multiple
// goroutines in one process; Lock/Unlock arbitrate across processes.
type Store struct {
	path     string
	lockPath string
}

// NewStore builds a Store rooted at path. The lock file lives beside
// it with a .lock extension, matching path's basename.
func NewStore(path string) *Store {
	lockPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".lock"
	return &Store{path: path, lockPath: lockPath}
}

// Lock acquires the cooperative lock, retrying up to 10 times with a
// 100ms delay between attempts if the lock file already exists. It
// fails with an internal error after the 10th consecutive collision.
func (s *Store) Lock() error {
	for attempt := 0; attempt < lockRetryAttempts; attempt++ {
		f, err := os.OpenFile(s.lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return f.Close()
		}
		if !os.IsExist(err) {
			return sdk.NewInternalError("failed to create lock file", err)
		}
		time.Sleep(lockRetryDelay)
	}
	return sdk.NewInternalError(fmt.Sprintf("timeout waiting for state lock after %d attempts", lockRetryAttempts), nil)
}

// Unlock releases the lock. Removing an absent lock file is a no-op.
func (s *Store) Unlock() error {
	if err := os.Remove(s.lockPath); err != nil && !os.IsNotExist(err) {
		return sdk.NewInternalError("failed to remove lock file", err)
	}
	return nil
}

// Load reads the state file, returning a fresh default State (version
// 1, empty maps) if the file is absent or empty.
func (s *Store) Load() (*sdk.State, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return sdk.NewState(), nil
	}
	if err != nil {
		return nil, sdk.NewInternalError("failed to stat state file", err)
	}
	if info.Size() == 0 {
		return sdk.NewState(), nil
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, sdk.NewInternalError("failed to read state file", err)
	}

	var st sdk.State
	if err := json.Unmarshal(content, &st); err != nil {
		return nil, sdk.NewInternalError("failed to parse state file", err)
	}
	return &st, nil
}

// Save writes state to the file as pretty-printed JSON, owner-only
// (0600), creating parent directories as needed.
func (s *Store) Save(st *sdk.State) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sdk.NewInternalError("failed to create state directory", err)
		}
	}

	content, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return sdk.NewInternalError("failed to serialize state", err)
	}

	if err := os.WriteFile(s.path, content, 0o600); err != nil {
		return sdk.NewInternalError("failed to write state file", err)
	}
	return nil
}

// WithLock acquires the lock, runs fn, and releases the lock
// regardless of fn's outcome.
func (s *Store) WithLock(fn func() error) error {
	if err := s.Lock(); err != nil {
		return err
	}
	defer s.Unlock()
	return fn()
}
