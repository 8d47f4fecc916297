// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the persistent entities of the banking core:
// accounts, cards, ledger transactions and loans, plus the snapshot
// container used by the persistence layer.
package model

import (
	"fmt"
	"time"
)

// AccountKind distinguishes savings from current accounts.
type AccountKind string

const (
	KindSavings AccountKind = "SAVINGS"
	KindCurrent AccountKind = "CURRENT"
)

// AccountStatus is the lifecycle state of an account. CLOSED is terminal.
type AccountStatus string

const (
	StatusActive AccountStatus = "ACTIVE"
	StatusFrozen AccountStatus = "FROZEN"
	StatusLocked AccountStatus = "LOCKED"
	StatusClosed AccountStatus = "CLOSED"
)

// TxKind enumerates every value-moving event the ledger records.
type TxKind string

const (
	TxDeposit      TxKind = "DEPOSIT"
	TxWithdraw     TxKind = "WITHDRAW"
	TxTransfer     TxKind = "TRANSFER"
	TxInterest     TxKind = "INTEREST"
	TxFee          TxKind = "FEE"
	TxLoanDisburse TxKind = "LOAN_DISBURSE"
	TxLoanRepay    TxKind = "LOAN_REPAY"
	TxLoanEMI      TxKind = "LOAN_EMI"
)

// Card holds the card credentials generated once at account opening.
// Cards are never reissued.
type Card struct {
	Number string `json:"number"`
	CVV    string `json:"cvv"`
	Expiry string `json:"expiry"` // MM/yy
}

// Account is the mutable account record owned by the account store.
// Balance stays non-negative after every committed operation.
type Account struct {
	AccountNo          string        `json:"account_no"`
	HolderName         string        `json:"holder_name"`
	PinHash            string        `json:"pin_hash"`
	Kind               AccountKind   `json:"kind"`
	Balance            float64       `json:"balance"`
	AnnualInterestRate float64       `json:"annual_interest_rate"`
	Status             AccountStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	Card               Card          `json:"card"`

	FailedPinAttempts    int     `json:"failed_pin_attempts"`
	LastFailedAttempt    string  `json:"last_failed_attempt,omitempty"` // yyyy-mm-dd
	LastWithdrawalDate   string  `json:"last_withdrawal_date,omitempty"`
	WithdrawnToday       float64 `json:"withdrawn_today"`
	DailyWithdrawalLimit float64 `json:"daily_withdrawal_limit"`

	FraudFlagged bool   `json:"fraud_flagged"`
	FraudReason  string `json:"fraud_reason,omitempty"`
}

// String returns the short display form used in listings.
func (a *Account) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.AccountNo, a.HolderName, a.Kind)
}

// Transaction is an immutable ledger fact. Once appended it is never
// mutated or removed. Amount is always a non-negative magnitude.
type Transaction struct {
	TxID        string    `json:"tx_id"`
	AccountNo   string    `json:"account_no"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        TxKind    `json:"kind"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	PostBalance float64   `json:"post_balance"`
}

// ShortID returns the 8-character transaction id prefix used in
// statements and console listings.
func (t *Transaction) ShortID() string {
	if len(t.TxID) < 8 {
		return t.TxID
	}
	return t.TxID[:8]
}

// Loan tracks one disbursed loan. Outstanding is monotonically
// non-increasing within [0, Principal]. Once Active flips to false the
// loan is terminal and never reopened.
type Loan struct {
	LoanID      string    `json:"loan_id"`
	AccountNo   string    `json:"account_no"`
	Category    string    `json:"category"` // personal/home/education
	Principal   float64   `json:"principal"`
	AnnualRate  float64   `json:"annual_rate"`
	TenureMonth int       `json:"tenure_months"`
	Outstanding float64   `json:"outstanding"`
	IssuedAt    time.Time `json:"issued_at"`
	Active      bool      `json:"active"`
	EMIRefs     []string  `json:"emi_refs,omitempty"` // tx ids of EMI payments
}

// SnapshotVersion is the current on-disk format version. Readers refuse
// snapshots written by a newer format than they understand.
const SnapshotVersion = 1

// Snapshot is the full durable state of the three stores. The persistence
// layer replaces the prior snapshot atomically on every commit.
type Snapshot struct {
	Version        int               `json:"format_version"`
	SavedAt        time.Time         `json:"saved_at"`
	Accounts       []Account         `json:"accounts"`
	Transactions   []Transaction     `json:"transactions"`
	LoansByAccount map[string][]Loan `json:"loans_by_account"`
}

// NewSnapshot returns an empty snapshot at the current format version.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:        SnapshotVersion,
		LoansByAccount: map[string][]Loan{},
	}
}
