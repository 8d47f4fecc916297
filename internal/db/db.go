// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db provides the persistence layer for the banking core. It
// abstracts the durable backend (compressed snapshot file, SQLite,
// PostgreSQL, MySQL) behind one Store interface so that the engine can
// commit and restore full state without caring where it lives.
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/vaultteller/vaultteller/internal/logging"
	"github.com/vaultteller/vaultteller/internal/model"
)

// Store is the persistence contract the engine depends on. Save commits
// the full state all-or-nothing: a crash mid-write never leaves the
// prior durable state unreadable. Load restores the full state at
// startup; a fresh backend yields an empty snapshot.
type Store interface {
	Load() (*model.Snapshot, error)
	Save(*model.Snapshot) error
	Close() error
}

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// New opens a store for the given backend type and DSN. For "snapshot"
// the DSN is a file path; for the SQL backends it is a driver DSN.
func New(backendType, dsn string) (Store, error) {
	switch backendType {
	case "snapshot":
		return NewSnapshotStore(dsn), nil
	case "sqlite", "postgres", "mysql":
		return newSQLStore(backendType, dsn)
	default:
		return nil, fmt.Errorf("unsupported storage type: %q", backendType)
	}
}

// newSQLStore opens a sql.DB for the DSN, runs migrations, and wraps it
// in a backend-specific Store over a long-lived *bun.DB.
func newSQLStore(backendType, dsn string) (Store, error) {
	driverName := backendType
	// The pgx stdlib driver registers as "pgx"; map "postgres" to it.
	if backendType == "postgres" {
		driverName = "pgx"
	}
	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory SQLite gives each connection its own database; force a
	// single connection so schema and data stay visible. Tests rely on
	// this with ":memory:" DSNs.
	if backendType == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	if err := runMigrations(sqlDB, backendType); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logging.Debugf("db: opened %s backend in %s", backendType, time.Since(start))

	bunDB := createBunDB(sqlDB, backendType)
	switch backendType {
	case "sqlite":
		return &SqliteStore{bun: bunDB}, nil
	case "postgres":
		return &PostgresStore{bun: bunDB}, nil
	case "mysql":
		return &MySQLStore{bun: bunDB}, nil
	default:
		return nil, fmt.Errorf("unsupported database type for store creation: %q", backendType)
	}
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and backend
// type. Centralizing construction keeps dialect selection in one place.
func createBunDB(sqlDB *sql.DB, backendType string) *bun.DB {
	switch backendType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}
