// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the PostgreSQL implementation of the Store interface.

package db

import (
	"github.com/uptrace/bun"

	"github.com/vaultteller/vaultteller/internal/model"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	bun *bun.DB
}

// Load restores the full state from the PostgreSQL database.
func (s *PostgresStore) Load() (*model.Snapshot, error) {
	return loadSnapshotBun(s.bun)
}

// Save replaces the stored state with the snapshot in one transaction.
func (s *PostgresStore) Save(snap *model.Snapshot) error {
	return saveSnapshotBun(s.bun, snap)
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.bun.Close()
}
