// Package snapshot persists the full record collection to a single JSON
// file. Saves go through a temp file in the target directory followed by
// an atomic rename, so a crash mid-write leaves the previous snapshot
// intact and never exposes a half-written file at the target path.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"kindred/internal/gedcom"
)

var (
	ErrNotPresent = errors.New("snapshot not present")
	ErrCorrupt    = errors.New("snapshot corrupt")
)

type Manager struct {
	path string

	// Overridable for simulating write failures in tests.
	createTemp func(dir, pattern string) (*os.File, error)
}

// NewManager returns a manager persisting to path.
func NewManager(path string) *Manager {
	return &Manager{path: path, createTemp: os.CreateTemp}
}

// Path returns the snapshot location.
func (m *Manager) Path() string { return m.path }

// Load reads the snapshot. A missing file yields ErrNotPresent and an
// undecodable one ErrCorrupt; callers fall back to the GEDCOM source in
// either case.
func (m *Manager) Load() (*gedcom.Data, error) {
	raw, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotPresent
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var data gedcom.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &data, nil
}

// Save atomically replaces the snapshot with the given state. The write
// is synced to disk before the rename.
func (m *Manager) Save(data *gedcom.Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	raw = append(raw, '\n')

	dir := filepath.Dir(m.path)
	tmp, err := m.createTemp(dir, filepath.Base(m.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing snapshot temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
