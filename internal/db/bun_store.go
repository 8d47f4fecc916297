// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the bun-backed load and save helpers shared by the
// SQL store implementations. Save replaces the full state in one
// transaction; Load rebuilds the snapshot with ledger order preserved
// through the seq column.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/vaultteller/vaultteller/internal/model"
)

// loadSnapshotBun reads the full state from the database. Transactions
// come back ordered by seq so the rebuilt ledger matches the original
// append order exactly.
func loadSnapshotBun(db *bun.DB) (*model.Snapshot, error) {
	ctx := context.Background()
	snap := model.NewSnapshot()

	var accRows []accountRow
	if err := db.NewSelect().Model(&accRows).Order("account_no ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, r := range accRows {
		snap.Accounts = append(snap.Accounts, rowToAccount(r))
	}

	var txRows []transactionRow
	if err := db.NewSelect().Model(&txRows).Order("seq ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	for _, r := range txRows {
		snap.Transactions = append(snap.Transactions, rowToTransaction(r))
	}

	var lnRows []loanRow
	if err := db.NewSelect().Model(&lnRows).Order("issued_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	for _, r := range lnRows {
		ln := rowToLoan(r)
		snap.LoansByAccount[ln.AccountNo] = append(snap.LoansByAccount[ln.AccountNo], ln)
	}

	return snap, nil
}

// saveSnapshotBun replaces the stored state with the snapshot in a
// single transaction. Either the new state lands completely or the
// previous one survives untouched.
func saveSnapshotBun(db *bun.DB, snap *model.Snapshot) error {
	ctx := context.Background()
	snap.Version = model.SnapshotVersion
	snap.SavedAt = time.Now()

	return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range []interface{}{(*loanRow)(nil), (*transactionRow)(nil), (*accountRow)(nil)} {
			if _, err := tx.NewDelete().Model(table).Where("1 = 1").Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		if len(snap.Accounts) > 0 {
			rows := make([]accountRow, 0, len(snap.Accounts))
			for _, a := range snap.Accounts {
				rows = append(rows, accountToRow(a))
			}
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert accounts: %w", err)
			}
		}

		if len(snap.Transactions) > 0 {
			rows := make([]transactionRow, 0, len(snap.Transactions))
			for i, t := range snap.Transactions {
				rows = append(rows, transactionToRow(int64(i), t))
			}
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert transactions: %w", err)
			}
		}

		var lnRows []loanRow
		for _, loans := range snap.LoansByAccount {
			for _, ln := range loans {
				lnRows = append(lnRows, loanToRow(ln))
			}
		}
		if len(lnRows) > 0 {
			if _, err := tx.NewInsert().Model(&lnRows).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert loans: %w", err)
			}
		}

		return nil
	})
}
