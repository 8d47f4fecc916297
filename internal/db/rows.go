// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"

	"github.com/vaultteller/vaultteller/internal/model"
)

// Row types map the domain entities onto the SQL schema. Conversions are
// lossless in both directions; EMI references travel as a JSON array in
// a text column to keep the schema identical across dialects.

type accountRow struct {
	bun.BaseModel `bun:"table:accounts"`

	AccountNo          string    `bun:"account_no,pk"`
	HolderName         string    `bun:"holder_name,notnull"`
	PinHash            string    `bun:"pin_hash,notnull"`
	Kind               string    `bun:"kind,notnull"`
	Balance            float64   `bun:"balance,notnull"`
	AnnualInterestRate float64   `bun:"annual_interest_rate,notnull"`
	Status             string    `bun:"status,notnull"`
	CreatedAt          time.Time `bun:"created_at,notnull"`

	CardNumber string `bun:"card_number,notnull"`
	CardCVV    string `bun:"card_cvv,notnull"`
	CardExpiry string `bun:"card_expiry,notnull"`

	FailedPinAttempts    int     `bun:"failed_pin_attempts,notnull"`
	LastFailedAttempt    string  `bun:"last_failed_attempt"`
	LastWithdrawalDate   string  `bun:"last_withdrawal_date"`
	WithdrawnToday       float64 `bun:"withdrawn_today,notnull"`
	DailyWithdrawalLimit float64 `bun:"daily_withdrawal_limit,notnull"`

	FraudFlagged bool   `bun:"fraud_flagged,notnull"`
	FraudReason  string `bun:"fraud_reason"`
}

type transactionRow struct {
	bun.BaseModel `bun:"table:transactions"`

	TxID        string    `bun:"tx_id,pk"`
	Seq         int64     `bun:"seq,notnull"` // ledger insertion order
	AccountNo   string    `bun:"account_no,notnull"`
	Timestamp   time.Time `bun:"ts,notnull"`
	Kind        string    `bun:"kind,notnull"`
	Amount      float64   `bun:"amount,notnull"`
	Description string    `bun:"descr"`
	PostBalance float64   `bun:"post_balance,notnull"`
}

type loanRow struct {
	bun.BaseModel `bun:"table:loans"`

	LoanID      string    `bun:"loan_id,pk"`
	AccountNo   string    `bun:"account_no,notnull"`
	Category    string    `bun:"category,notnull"`
	Principal   float64   `bun:"principal,notnull"`
	AnnualRate  float64   `bun:"annual_rate,notnull"`
	TenureMonth int       `bun:"tenure_months,notnull"`
	Outstanding float64   `bun:"outstanding,notnull"`
	IssuedAt    time.Time `bun:"issued_at,notnull"`
	Active      bool      `bun:"active,notnull"`
	EMIRefs     string    `bun:"emi_refs"` // JSON array of tx references
}

func accountToRow(a model.Account) accountRow {
	return accountRow{
		AccountNo:            a.AccountNo,
		HolderName:           a.HolderName,
		PinHash:              a.PinHash,
		Kind:                 string(a.Kind),
		Balance:              a.Balance,
		AnnualInterestRate:   a.AnnualInterestRate,
		Status:               string(a.Status),
		CreatedAt:            a.CreatedAt,
		CardNumber:           a.Card.Number,
		CardCVV:              a.Card.CVV,
		CardExpiry:           a.Card.Expiry,
		FailedPinAttempts:    a.FailedPinAttempts,
		LastFailedAttempt:    a.LastFailedAttempt,
		LastWithdrawalDate:   a.LastWithdrawalDate,
		WithdrawnToday:       a.WithdrawnToday,
		DailyWithdrawalLimit: a.DailyWithdrawalLimit,
		FraudFlagged:         a.FraudFlagged,
		FraudReason:          a.FraudReason,
	}
}

func rowToAccount(r accountRow) model.Account {
	return model.Account{
		AccountNo:            r.AccountNo,
		HolderName:           r.HolderName,
		PinHash:              r.PinHash,
		Kind:                 model.AccountKind(r.Kind),
		Balance:              r.Balance,
		AnnualInterestRate:   r.AnnualInterestRate,
		Status:               model.AccountStatus(r.Status),
		CreatedAt:            r.CreatedAt,
		Card:                 model.Card{Number: r.CardNumber, CVV: r.CardCVV, Expiry: r.CardExpiry},
		FailedPinAttempts:    r.FailedPinAttempts,
		LastFailedAttempt:    r.LastFailedAttempt,
		LastWithdrawalDate:   r.LastWithdrawalDate,
		WithdrawnToday:       r.WithdrawnToday,
		DailyWithdrawalLimit: r.DailyWithdrawalLimit,
		FraudFlagged:         r.FraudFlagged,
		FraudReason:          r.FraudReason,
	}
}

func transactionToRow(seq int64, t model.Transaction) transactionRow {
	return transactionRow{
		TxID:        t.TxID,
		Seq:         seq,
		AccountNo:   t.AccountNo,
		Timestamp:   t.Timestamp,
		Kind:        string(t.Kind),
		Amount:      t.Amount,
		Description: t.Description,
		PostBalance: t.PostBalance,
	}
}

func rowToTransaction(r transactionRow) model.Transaction {
	return model.Transaction{
		TxID:        r.TxID,
		AccountNo:   r.AccountNo,
		Timestamp:   r.Timestamp,
		Kind:        model.TxKind(r.Kind),
		Amount:      r.Amount,
		Description: r.Description,
		PostBalance: r.PostBalance,
	}
}

func loanToRow(l model.Loan) loanRow {
	refs := "[]"
	if len(l.EMIRefs) > 0 {
		if b, err := json.Marshal(l.EMIRefs); err == nil {
			refs = string(b)
		}
	}
	return loanRow{
		LoanID:      l.LoanID,
		AccountNo:   l.AccountNo,
		Category:    l.Category,
		Principal:   l.Principal,
		AnnualRate:  l.AnnualRate,
		TenureMonth: l.TenureMonth,
		Outstanding: l.Outstanding,
		IssuedAt:    l.IssuedAt,
		Active:      l.Active,
		EMIRefs:     refs,
	}
}

func rowToLoan(r loanRow) model.Loan {
	var refs []string
	if r.EMIRefs != "" {
		_ = json.Unmarshal([]byte(r.EMIRefs), &refs)
	}
	return model.Loan{
		LoanID:      r.LoanID,
		AccountNo:   r.AccountNo,
		Category:    r.Category,
		Principal:   r.Principal,
		AnnualRate:  r.AnnualRate,
		TenureMonth: r.TenureMonth,
		Outstanding: r.Outstanding,
		IssuedAt:    r.IssuedAt,
		Active:      r.Active,
		EMIRefs:     refs,
	}
}
