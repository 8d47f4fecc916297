// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ledger holds the append-only transaction log. The ledger is the
// single source of truth for account history: entries are never mutated,
// removed or reordered once appended.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaultteller/vaultteller/internal/model"
)

// DefaultPageSize is the page size for paginated history queries.
const DefaultPageSize = 10

// miniStatementSize is the number of entries in a mini statement.
const miniStatementSize = 5

// Ledger is a thread-safe append-only transaction log with a per-account
// index. Appends are total-ordered per account; the insertion order
// doubles as chronological order since timestamps are taken at append.
type Ledger struct {
	mu        sync.RWMutex
	entries   []model.Transaction
	byAccount map[string][]int // indexes into entries, insertion order
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{byAccount: map[string][]int{}}
}

// Restore rebuilds a ledger from previously persisted entries, keeping
// their original ids and timestamps.
func Restore(entries []model.Transaction) *Ledger {
	l := New()
	l.entries = make([]model.Transaction, len(entries))
	copy(l.entries, entries)
	for i, tx := range l.entries {
		l.byAccount[tx.AccountNo] = append(l.byAccount[tx.AccountNo], i)
	}
	return l
}

// Append records a new transaction and returns it with its assigned id
// and timestamp.
func (l *Ledger) Append(accountNo string, kind model.TxKind, amount float64, desc string, postBalance float64, now time.Time) model.Transaction {
	tx := model.Transaction{
		TxID:        uuid.NewString(),
		AccountNo:   accountNo,
		Timestamp:   now,
		Kind:        kind,
		Amount:      amount,
		Description: desc,
		PostBalance: postBalance,
	}
	l.mu.Lock()
	l.entries = append(l.entries, tx)
	l.byAccount[accountNo] = append(l.byAccount[accountNo], len(l.entries)-1)
	l.mu.Unlock()
	return tx
}

// All returns a copy of every entry in insertion order.
func (l *Ledger) All() []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// ForAccount returns all entries for an account in insertion order.
func (l *Ledger) ForAccount(accountNo string) []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idxs := l.byAccount[accountNo]
	out := make([]model.Transaction, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, l.entries[i])
	}
	return out
}

// MiniStatement returns the last five entries (or fewer) for an account,
// oldest-first within the slice.
func (l *Ledger) MiniStatement(accountNo string) []model.Transaction {
	all := l.ForAccount(accountNo)
	if len(all) > miniStatementSize {
		all = all[len(all)-miniStatementSize:]
	}
	return all
}

// Page returns the zero-indexed page of an account's history along with
// the total entry count. ok is false when the page is past the end;
// running off the end is an expected signal, not an error.
func (l *Ledger) Page(accountNo string, page, pageSize int) (txs []model.Transaction, total int, ok bool) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	all := l.ForAccount(accountNo)
	total = len(all)
	from := page * pageSize
	if page < 0 || from >= total {
		return nil, total, false
	}
	to := from + pageSize
	if to > total {
		to = total
	}
	return all[from:to], total, true
}

// Count returns the number of entries for an account.
func (l *Ledger) Count(accountNo string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byAccount[accountNo])
}
