// Package snapshot persists the latest usage record as a single JSON file.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoSnapshot is returned by Read when nothing has been written yet
var ErrNoSnapshot = errors.New("no usage snapshot found")

// Store writes and reads one JSON snapshot file.
type Store struct {
	path string
}

// NewStore creates a store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Write replaces the snapshot with data, creating parent directories as needed.
// The file is written next to its destination and renamed into place.
func (s *Store) Write(data any) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(jsonData); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	return nil
}

// Read decodes the snapshot into target.
func (s *Store) Read(target any) error {
	data, err := os.ReadFile(s.path) //nolint:gosec // path comes from user configuration
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w at %s", ErrNoSnapshot, s.path)
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return nil
}

// Age returns how long ago the snapshot file was last written.
func (s *Store) Age() (time.Duration, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w at %s", ErrNoSnapshot, s.path)
		}
		return 0, fmt.Errorf("failed to stat snapshot: %w", err)
	}
	return time.Since(info.ModTime()), nil
}

// ensureDir creates the snapshot directory if it doesn't exist.
func (s *Store) ensureDir() error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
