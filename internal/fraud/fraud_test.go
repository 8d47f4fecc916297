// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package fraud

import (
	"testing"
	"time"

	"github.com/vaultteller/vaultteller/internal/model"
)

func TestSuspiciousThresholds(t *testing.T) {
	const threshold = 100000.0

	if SuspiciousWithdrawal(50000, threshold) {
		t.Fatal("withdrawal exactly at half the threshold must not flag")
	}
	if !SuspiciousWithdrawal(50000.01, threshold) {
		t.Fatal("withdrawal above half the threshold must flag")
	}
	if SuspiciousTransfer(100000, threshold) {
		t.Fatal("transfer exactly at the threshold must not flag")
	}
	if !SuspiciousTransfer(100000.01, threshold) {
		t.Fatal("transfer above the threshold must flag")
	}
}

func TestFlagsAreSticky(t *testing.T) {
	a := &model.Account{AccountNo: "ACC1"}
	FlagWithdrawal(a, 60000)
	if !a.FraudFlagged || a.FraudReason == "" {
		t.Fatalf("flag not applied: %+v", a)
	}
	// A later flag overwrites the reason but never clears the bit.
	FlagTransfer(a, 120000)
	if !a.FraudFlagged {
		t.Fatal("flag must remain set")
	}
}

func TestScanHistoryTrailingWindow(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	busy := &model.Account{AccountNo: "ACC1"}
	quiet := &model.Account{AccountNo: "ACC2"}

	var txs []model.Transaction
	// Eleven transfers inside the window flags ACC1.
	for i := 0; i < 11; i++ {
		txs = append(txs, model.Transaction{
			AccountNo: "ACC1",
			Kind:      model.TxTransfer,
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	// Old transfers outside the window do not count for ACC2.
	for i := 0; i < 15; i++ {
		txs = append(txs, model.Transaction{
			AccountNo: "ACC2",
			Kind:      model.TxTransfer,
			Timestamp: now.Add(-25 * time.Hour),
		})
	}

	flagged := ScanHistory([]*model.Account{busy, quiet}, txs, now)
	if len(flagged) != 1 || flagged[0] != "ACC1" {
		t.Fatalf("flagged = %v, want [ACC1]", flagged)
	}
	if !busy.FraudFlagged || busy.FraudReason != ManyTransfersReason {
		t.Fatalf("busy account not flagged: %+v", busy)
	}
	if quiet.FraudFlagged {
		t.Fatal("quiet account must not be flagged")
	}
}

func TestScanHistoryExactLimitNotFlagged(t *testing.T) {
	now := time.Now()
	a := &model.Account{AccountNo: "ACC1"}
	var txs []model.Transaction
	for i := 0; i < 10; i++ {
		txs = append(txs, model.Transaction{AccountNo: "ACC1", Kind: model.TxTransfer, Timestamp: now})
	}
	if flagged := ScanHistory([]*model.Account{a}, txs, now); len(flagged) != 0 {
		t.Fatalf("ten transfers must stay under the rule, flagged = %v", flagged)
	}
}
