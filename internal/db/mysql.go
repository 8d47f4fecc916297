// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the MySQL implementation of the Store interface.

package db

import (
	"github.com/uptrace/bun"

	"github.com/vaultteller/vaultteller/internal/model"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bun *bun.DB
}

// Load restores the full state from the MySQL database.
func (s *MySQLStore) Load() (*model.Snapshot, error) {
	return loadSnapshotBun(s.bun)
}

// Save replaces the stored state with the snapshot in one transaction.
func (s *MySQLStore) Save(snap *model.Snapshot) error {
	return saveSnapshotBun(s.bun, snap)
}

// Close closes the underlying database connection.
func (s *MySQLStore) Close() error {
	return s.bun.Close()
}
