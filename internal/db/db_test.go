// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"

	"github.com/vaultteller/vaultteller/internal/model"
)

func TestNewRejectsUnknownBackend(t *testing.T) {
	if _, err := New("oracle", "dsn"); err == nil {
		t.Fatal("unknown backend must be rejected")
	}
}

func TestNewSnapshotBackend(t *testing.T) {
	s, err := New("snapshot", t.TempDir()+"/state.zst")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = s.Close() }()
	if _, ok := s.(*SnapshotStore); !ok {
		t.Fatalf("store type = %T", s)
	}
}

func TestSqliteRoundTrip(t *testing.T) {
	s, err := New("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.Save(sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(got.Accounts) != 1 || got.Accounts[0].AccountNo != "ACC1" {
		t.Fatalf("accounts = %+v", got.Accounts)
	}
	if got.Accounts[0].Kind != model.KindSavings || got.Accounts[0].Status != model.StatusActive {
		t.Fatalf("enums lost: %+v", got.Accounts[0])
	}
	if len(got.Transactions) != 1 || got.Transactions[0].Description != "Initial deposit" {
		t.Fatalf("transactions = %+v", got.Transactions)
	}
	loans := got.LoansByAccount["ACC1"]
	if len(loans) != 1 || loans[0].EMIRefs[0] != "tx-9" {
		t.Fatalf("loans = %+v", loans)
	}
}

func TestSqliteSaveReplacesState(t *testing.T) {
	s, err := New("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.Save(sampleSnapshot()); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second := model.NewSnapshot()
	second.Accounts = []model.Account{{AccountNo: "ACC2", HolderName: "Bob", Kind: model.KindCurrent, Status: model.StatusActive}}
	if err := s.Save(second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Accounts) != 1 || got.Accounts[0].AccountNo != "ACC2" {
		t.Fatalf("accounts = %+v, want only ACC2", got.Accounts)
	}
	if len(got.Transactions) != 0 {
		t.Fatalf("stale transactions survived: %+v", got.Transactions)
	}
}

func TestSqliteSeqPreservesLedgerOrder(t *testing.T) {
	s, err := New("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = s.Close() }()

	snap := model.NewSnapshot()
	for i := 0; i < 20; i++ {
		snap.Transactions = append(snap.Transactions, model.Transaction{
			TxID:      string(rune('a'+19-i)) + "-id", // ids sort against insertion order
			AccountNo: "ACC1",
			Kind:      model.TxDeposit,
			Amount:    float64(i),
		})
	}
	if err := s.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, tx := range got.Transactions {
		if tx.Amount != float64(i) {
			t.Fatalf("entry %d amount = %.0f, order not preserved", i, tx.Amount)
		}
	}
}
