// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/vaultteller/vaultteller/internal/model"
)

func fill(l *Ledger, accountNo string, n int) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		l.Append(accountNo, model.TxDeposit, float64(i+1), fmt.Sprintf("deposit %d", i+1), float64(i+1), now.Add(time.Duration(i)*time.Minute))
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	l := New()
	fill(l, "ACC1", 5)

	txs := l.ForAccount("ACC1")
	if len(txs) != 5 {
		t.Fatalf("got %d entries, want 5", len(txs))
	}
	for i, tx := range txs {
		if tx.Amount != float64(i+1) {
			t.Fatalf("entry %d amount = %.2f, want %d", i, tx.Amount, i+1)
		}
		if tx.TxID == "" {
			t.Fatal("transaction id not assigned")
		}
	}
}

func TestMiniStatementLastFiveOldestFirst(t *testing.T) {
	l := New()
	fill(l, "ACC1", 8)

	mini := l.MiniStatement("ACC1")
	if len(mini) != 5 {
		t.Fatalf("got %d entries, want 5", len(mini))
	}
	// Entries 4..8, oldest first.
	for i, tx := range mini {
		if tx.Amount != float64(i+4) {
			t.Fatalf("mini entry %d amount = %.2f, want %d", i, tx.Amount, i+4)
		}
	}
}

func TestPagePastEnd(t *testing.T) {
	l := New()
	fill(l, "ACC1", 12)

	page0, total, ok := l.Page("ACC1", 0, DefaultPageSize)
	if !ok || total != 12 || len(page0) != 10 {
		t.Fatalf("page 0: ok=%v total=%d len=%d", ok, total, len(page0))
	}
	page1, _, ok := l.Page("ACC1", 1, DefaultPageSize)
	if !ok || len(page1) != 2 {
		t.Fatalf("page 1: ok=%v len=%d", ok, len(page1))
	}
	if _, _, ok := l.Page("ACC1", 2, DefaultPageSize); ok {
		t.Fatal("page past the end must report ok=false")
	}
	if _, _, ok := l.Page("ACC1", -1, DefaultPageSize); ok {
		t.Fatal("negative page must report ok=false")
	}
}

func TestRestoreRebuildsIndex(t *testing.T) {
	l := New()
	fill(l, "ACC1", 3)
	fill(l, "ACC2", 2)

	restored := Restore(l.All())
	if restored.Count("ACC1") != 3 || restored.Count("ACC2") != 2 {
		t.Fatalf("restored counts: ACC1=%d ACC2=%d", restored.Count("ACC1"), restored.Count("ACC2"))
	}
	if len(restored.All()) != 5 {
		t.Fatalf("restored total = %d, want 5", len(restored.All()))
	}
}

func TestForAccountIsolation(t *testing.T) {
	l := New()
	fill(l, "ACC1", 3)
	fill(l, "ACC2", 4)

	if got := len(l.ForAccount("ACC1")); got != 3 {
		t.Fatalf("ACC1 entries = %d, want 3", got)
	}
	if got := len(l.ForAccount("ACC3")); got != 0 {
		t.Fatalf("unknown account entries = %d, want 0", got)
	}
}
