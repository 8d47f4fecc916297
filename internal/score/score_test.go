// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package score

import (
	"testing"
	"time"

	"github.com/vaultteller/vaultteller/internal/model"
)

var now = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func TestBaselineNewAccount(t *testing.T) {
	a := &model.Account{CreatedAt: now}
	if got := Compute(a, nil, nil, now); got != 50 {
		t.Fatalf("new account score = %d, want 50", got)
	}
}

func TestAgeBonuses(t *testing.T) {
	yearOld := &model.Account{CreatedAt: now.AddDate(-1, 0, -2)}
	if got := Compute(yearOld, nil, nil, now); got != 60 {
		t.Fatalf("one-year account = %d, want 60", got)
	}
	twoYears := &model.Account{CreatedAt: now.AddDate(-2, 0, -2)}
	if got := Compute(twoYears, nil, nil, now); got != 65 {
		t.Fatalf("two-year account = %d, want 65", got)
	}
}

func TestLoanBurdenAndEMICredit(t *testing.T) {
	a := &model.Account{CreatedAt: now}
	// Fully outstanding loan: -10; eight EMI payments cap at +5.
	loans := []model.Loan{{
		Principal:   10000,
		Outstanding: 10000,
		EMIRefs:     []string{"1", "2", "3", "4", "5", "6", "7", "8"},
	}}
	if got := Compute(a, loans, nil, now); got != 45 {
		t.Fatalf("score = %d, want 50 - 10 + 5 = 45", got)
	}
}

func TestDepositHabitBonus(t *testing.T) {
	a := &model.Account{CreatedAt: now}
	var history []model.Transaction
	for i := 0; i < 13; i++ {
		history = append(history, model.Transaction{Kind: model.TxDeposit})
	}
	if got := Compute(a, nil, history, now); got != 60 {
		t.Fatalf("score = %d, want 60", got)
	}
}

func TestFraudPenaltyAndClamping(t *testing.T) {
	flagged := &model.Account{CreatedAt: now, FraudFlagged: true}
	if got := Compute(flagged, nil, nil, now); got != 30 {
		t.Fatalf("flagged score = %d, want 30", got)
	}

	// Pile on loan burden until the floor engages.
	var loans []model.Loan
	for i := 0; i < 6; i++ {
		loans = append(loans, model.Loan{Principal: 10000, Outstanding: 10000})
	}
	if got := Compute(flagged, loans, nil, now); got != 0 {
		t.Fatalf("score = %d, want clamp at 0", got)
	}

	// And the ceiling: old account, many deposits, capped at 100.
	rich := &model.Account{CreatedAt: now.AddDate(-5, 0, 0)}
	var paid []model.Loan
	for i := 0; i < 10; i++ {
		paid = append(paid, model.Loan{Principal: 10000, Outstanding: 0, EMIRefs: []string{"1", "2", "3", "4", "5"}})
	}
	var history []model.Transaction
	for i := 0; i < 20; i++ {
		history = append(history, model.Transaction{Kind: model.TxDeposit})
	}
	if got := Compute(rich, paid, history, now); got != 100 {
		t.Fatalf("score = %d, want clamp at 100", got)
	}
}
