// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/vaultteller/vaultteller/internal/model"
)

// SnapshotStore persists the full state as one zstd-compressed JSON
// document carrying a format version. Writes go to a sibling .tmp file
// that atomically replaces the previous snapshot via rename, so the
// prior state stays loadable until the new one is fully on disk.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore returns a snapshot store writing to the given path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load reads and decodes the snapshot file. A missing file is a fresh
// start and yields an empty snapshot. Snapshots written by a newer
// format version are refused rather than misread.
func (s *SnapshotStore) Load() (*model.Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("could not open snapshot %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var snap model.Snapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("could not decode snapshot %s: %w", s.path, err)
	}
	if snap.Version > model.SnapshotVersion {
		return nil, fmt.Errorf("snapshot format v%d is newer than supported v%d", snap.Version, model.SnapshotVersion)
	}
	if snap.LoansByAccount == nil {
		snap.LoansByAccount = map[string][]model.Loan{}
	}
	return &snap, nil
}

// Save writes the snapshot to a temporary file and renames it over the
// previous one. The rename is the commit point.
func (s *SnapshotStore) Save(snap *model.Snapshot) error {
	snap.Version = model.SnapshotVersion

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create snapshot directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("could not create temp snapshot: %w", err)
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		_ = zw.Close()
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("could not flush snapshot: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("could not sync snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("could not close snapshot: %w", err)
	}

	return os.Rename(tmp, s.path)
}

// Close is a no-op for file snapshots.
func (s *SnapshotStore) Close() error { return nil }
