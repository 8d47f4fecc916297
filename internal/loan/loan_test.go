// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package loan

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vaultteller/vaultteller/internal/model"
)

func TestEMIFormula(t *testing.T) {
	// 100000 at 12% over 12 months: the standard annuity figure.
	got := EMI(100000, 12, 12)
	if math.Abs(got-8884.88) > 0.01 {
		t.Fatalf("EMI(100000, 12%%, 12) = %.4f, want 8884.88", got)
	}
}

func TestEMIZeroRate(t *testing.T) {
	if got := EMI(12000, 0, 12); got != 1000 {
		t.Fatalf("zero-rate EMI = %.4f, want exactly 1000", got)
	}
}

func TestDisburseValidation(t *testing.T) {
	b := NewBook()
	now := time.Now()

	if _, err := b.Disburse("ACC1", "personal", 0, 10, 12, now); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("zero principal: err = %v", err)
	}
	if _, err := b.Disburse("ACC1", "personal", 1000, 10, 0, now); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("zero tenure: err = %v", err)
	}
	if _, err := b.Disburse("ACC1", "personal", 1000, -1, 12, now); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("negative rate: err = %v", err)
	}

	ln, err := b.Disburse("ACC1", "home", 50000, 8, 60, now)
	if err != nil {
		t.Fatalf("valid disburse failed: %v", err)
	}
	if ln.Outstanding != ln.Principal || !ln.Active {
		t.Fatalf("fresh loan: outstanding=%.2f active=%v", ln.Outstanding, ln.Active)
	}
}

func TestPayEMISplitsInterestAndPrincipal(t *testing.T) {
	b := NewBook()
	ln, _ := b.Disburse("ACC1", "personal", 100000, 12, 12, time.Now())

	p, err := b.PayEMI(ln, 1e9, "tx-1")
	if err != nil {
		t.Fatalf("PayEMI: %v", err)
	}
	// First month: interest = 100000 * 1% = 1000.
	if math.Abs(p.InterestPart-1000) > 0.01 {
		t.Fatalf("interest part = %.4f, want 1000", p.InterestPart)
	}
	if math.Abs(p.PrincipalPart-(p.Amount-1000)) > 1e-9 {
		t.Fatalf("principal part = %.4f, want amount minus interest", p.PrincipalPart)
	}
	if math.Abs(ln.Outstanding-(100000-p.PrincipalPart)) > 1e-9 {
		t.Fatalf("outstanding = %.4f", ln.Outstanding)
	}
	if len(ln.EMIRefs) != 1 || ln.EMIRefs[0] != "tx-1" {
		t.Fatalf("EMI refs = %v", ln.EMIRefs)
	}
}

func TestPayEMIInsufficientBalance(t *testing.T) {
	b := NewBook()
	ln, _ := b.Disburse("ACC1", "personal", 100000, 12, 12, time.Now())

	before := ln.Outstanding
	if _, err := b.PayEMI(ln, 100, "tx-1"); !errors.Is(err, model.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if ln.Outstanding != before || len(ln.EMIRefs) != 0 {
		t.Fatal("failed payment must not mutate the loan")
	}
}

func TestFullScheduleClosesLoan(t *testing.T) {
	b := NewBook()
	ln, _ := b.Disburse("ACC1", "personal", 100000, 12, 12, time.Now())

	closed := false
	for i := 0; i < 12; i++ {
		p, err := b.PayEMI(ln, 1e9, "tx")
		if err != nil {
			t.Fatalf("installment %d: %v", i+1, err)
		}
		closed = p.Closed
	}
	if !closed || ln.Active || ln.Outstanding != 0 {
		t.Fatalf("after full schedule: closed=%v active=%v outstanding=%.4f", closed, ln.Active, ln.Outstanding)
	}

	if _, err := b.PayEMI(ln, 1e9, "tx"); !errors.Is(err, model.ErrLoanClosed) {
		t.Fatalf("payment on closed loan: err = %v, want ErrLoanClosed", err)
	}
}

func TestPrepayClampsToOutstanding(t *testing.T) {
	b := NewBook()
	ln, _ := b.Disburse("ACC1", "personal", 5000, 10, 12, time.Now())

	p, err := b.Prepay(ln, 8000, 10000)
	if err != nil {
		t.Fatalf("Prepay: %v", err)
	}
	if p.Amount != 5000 {
		t.Fatalf("applied = %.2f, want clamp to 5000", p.Amount)
	}
	if !p.Closed || ln.Active || ln.Outstanding != 0 {
		t.Fatalf("overpay must close the loan: closed=%v active=%v outstanding=%.2f", p.Closed, ln.Active, ln.Outstanding)
	}
}

func TestPrepayValidation(t *testing.T) {
	b := NewBook()
	ln, _ := b.Disburse("ACC1", "personal", 5000, 10, 12, time.Now())

	if _, err := b.Prepay(ln, 0, 10000); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("zero prepay: err = %v", err)
	}
	if _, err := b.Prepay(ln, 2000, 1000); !errors.Is(err, model.ErrInsufficientFunds) {
		t.Fatalf("prepay above balance: err = %v", err)
	}
}

func TestRestoreCopiesLoans(t *testing.T) {
	b := NewBook()
	_, _ = b.Disburse("ACC1", "personal", 5000, 10, 12, time.Now())

	restored := Restore(b.All())
	loans := restored.ForAccount("ACC1")
	if len(loans) != 1 || loans[0].Outstanding != 5000 {
		t.Fatalf("restored loans = %+v", loans)
	}
}
