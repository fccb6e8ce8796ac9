package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pomokit/pomo/internal/domain"
)

// FileHandleRegistry implements domain.HandleRegistry with one small
// JSON file per timer owner. Handles are durable so a later CLI
// invocation can find and cancel a task spawned by an earlier one.
type FileHandleRegistry struct {
	dir string
}

// NewHandleRegistry creates a registry rooted at dir.
func NewHandleRegistry(dir string) *FileHandleRegistry {
	return &FileHandleRegistry{dir: dir}
}

// Path returns the handle file path for an owner.
func (r *FileHandleRegistry) Path(owner domain.TimerOwner) string {
	return filepath.Join(r.dir, string(owner)+".pid")
}

// Record saves the handle, replacing any previous one for the owner.
func (r *FileHandleRegistry) Record(h domain.TimerHandle) error {
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	path := r.Path(h.Owner)
	tmpPath := fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Get returns the recorded handle, or (nil, nil) when absent. A handle
// that cannot be parsed is treated as stale and reported as absent;
// unlike session records, a handle carries no tracked time.
func (r *FileHandleRegistry) Get(owner domain.TimerOwner) (*domain.TimerHandle, error) {
	data, err := os.ReadFile(r.Path(owner))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var h domain.TimerHandle
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, nil
	}
	return &h, nil
}

// Clear removes the handle file. Missing file is not an error.
func (r *FileHandleRegistry) Clear(owner domain.TimerOwner) error {
	err := os.Remove(r.Path(owner))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ClearOwned removes the handle only if it still records pid. A task
// that finished naturally uses this so it cannot delete the handle of
// a successor task spawned in the meantime.
func (r *FileHandleRegistry) ClearOwned(owner domain.TimerOwner, pid int) error {
	h, err := r.Get(owner)
	if err != nil {
		return err
	}
	if h == nil || h.PID != pid {
		return nil
	}
	return r.Clear(owner)
}

var _ domain.HandleRegistry = (*FileHandleRegistry)(nil)
