// Package infra implements infrastructure concerns (state files,
// process inspection, notifications, timer handles, archives).
package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pomokit/pomo/internal/domain"
)

// Store persists a single JSON record of type T at a fixed path.
// Writes go to a temp file in the same directory and are renamed into
// place, so a reader racing a writer sees either the old or the new
// complete record, never a mix. This is the sole concurrency primitive
// between CLI invocations and detached background tasks.
type Store[T any] struct {
	path string
}

// NewStore creates a store rooted at path.
func NewStore[T any](path string) *Store[T] {
	return &Store[T]{path: path}
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Read returns the current record, or (nil, nil) when no record
// exists. An unparsable record returns domain.ErrCorruptState rather
// than being treated as absent.
func (s *Store[T]) Read() (*T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptState, s.path, err)
	}
	return &rec, nil
}

// Write atomically replaces the record.
func (s *Store[T]) Write(rec *T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	// Temp file is unique per process to avoid writer collisions,
	// and synced before the rename so a crash cannot promote an
	// empty file over a good record.
	tmpPath := fmt.Sprintf("%s.%d.tmp", s.path, os.Getpid())
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Update applies fn to the existing record and writes it back.
// Returns domain.ErrStateNotFound when no record exists.
func (s *Store[T]) Update(fn func(*T) error) error {
	rec, err := s.Read()
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", domain.ErrStateNotFound, s.path)
	}
	if err := fn(rec); err != nil {
		return err
	}
	return s.Write(rec)
}

// Clear removes the record. Missing file is not an error.
func (s *Store[T]) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a record file is present.
func (s *Store[T]) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
