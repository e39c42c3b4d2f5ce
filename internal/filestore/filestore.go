// Package filestore implements tasklist.Slot as a JSON file on local disk.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gtodo/internal/tasklist"
)

// Slot stores the task list as a JSON array in <dir>/<name>.json.
type Slot struct {
	path string
}

// New creates a Slot for the named slot inside dir.
func New(dir, name string) *Slot {
	return &Slot{path: filepath.Join(dir, name+".json")}
}

// Path returns the backing file path.
func (s *Slot) Path() string { return s.path }

// Load implements tasklist.Slot.
func (s *Slot) Load(ctx context.Context) ([]tasklist.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, tasklist.ErrSlotEmpty
		}
		return nil, err
	}
	return tasklist.Unmarshal(data)
}

// Save implements tasklist.Slot. The file is replaced atomically.
func (s *Slot) Save(ctx context.Context, tasks []tasklist.Task) error {
	data, err := tasklist.Marshal(tasks)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create slot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace slot: %w", err)
	}
	return nil
}
