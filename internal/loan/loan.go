// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package loan owns loan issuance and the flat-schedule EMI amortization
// model. The EMI is recomputed from the original principal, rate and
// tenure on every payment rather than read from a cached table.
package loan

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaultteller/vaultteller/internal/model"
)

// ClosureEpsilon: once outstanding falls to or below this, the loan is
// clamped to zero and closed for good.
const ClosureEpsilon = 0.01

// EMI computes the equated monthly installment for a loan. With monthly
// rate r = annualRate/12/100 the formula is P*r*(1+r)^n / ((1+r)^n - 1);
// for a zero rate it degrades to straight-line P/n.
func EMI(principal, annualRate float64, tenureMonths int) float64 {
	r := annualRate / 12.0 / 100.0
	if r == 0 {
		return principal / float64(tenureMonths)
	}
	pow := math.Pow(1+r, float64(tenureMonths))
	return principal * r * pow / (pow - 1)
}

// Payment describes the outcome of one EMI or prepayment step.
type Payment struct {
	Amount        float64 // debited from the account
	PrincipalPart float64
	InterestPart  float64
	Closed        bool // loan became inactive with this payment
}

// Book owns the mapping from account number to its loans. Mutations to a
// loan happen while the caller holds the owning account's lock, so the
// Book only guards its own map.
type Book struct {
	mu    sync.RWMutex
	loans map[string][]*model.Loan
}

// NewBook returns an empty loan book.
func NewBook() *Book {
	return &Book{loans: map[string][]*model.Loan{}}
}

// Restore rebuilds a book from persisted loans.
func Restore(byAccount map[string][]model.Loan) *Book {
	b := NewBook()
	for acc, ls := range byAccount {
		for i := range ls {
			cp := ls[i]
			b.loans[acc] = append(b.loans[acc], &cp)
		}
	}
	return b
}

// Disburse creates a new active loan with outstanding equal to the
// principal. It validates terms only; crediting the account balance and
// ledger bookkeeping are the engine's responsibility.
func (b *Book) Disburse(accountNo, category string, principal, annualRate float64, tenureMonths int, now time.Time) (*model.Loan, error) {
	if principal <= 0 {
		return nil, fmt.Errorf("principal must be positive: %w", model.ErrValidation)
	}
	if tenureMonths <= 0 {
		return nil, fmt.Errorf("tenure must be positive: %w", model.ErrValidation)
	}
	if annualRate < 0 {
		return nil, fmt.Errorf("rate must not be negative: %w", model.ErrValidation)
	}
	l := &model.Loan{
		LoanID:      uuid.NewString(),
		AccountNo:   accountNo,
		Category:    category,
		Principal:   principal,
		AnnualRate:  annualRate,
		TenureMonth: tenureMonths,
		Outstanding: principal,
		IssuedAt:    now,
		Active:      true,
	}
	b.mu.Lock()
	b.loans[accountNo] = append(b.loans[accountNo], l)
	b.mu.Unlock()
	return l, nil
}

// Find returns the loan with the given id for an account.
func (b *Book) Find(accountNo, loanID string) (*model.Loan, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, l := range b.loans[accountNo] {
		if l.LoanID == loanID {
			return l, nil
		}
	}
	return nil, fmt.Errorf("loan %s: %w", loanID, model.ErrNotFound)
}

// ForAccount returns copies of the account's loans.
func (b *Book) ForAccount(accountNo string) []model.Loan {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Loan, 0, len(b.loans[accountNo]))
	for _, l := range b.loans[accountNo] {
		out = append(out, *l)
	}
	return out
}

// All returns copies of every loan keyed by account number.
func (b *Book) All() map[string][]model.Loan {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string][]model.Loan, len(b.loans))
	for acc, ls := range b.loans {
		cp := make([]model.Loan, 0, len(ls))
		for _, l := range ls {
			cp = append(cp, *l)
		}
		out[acc] = cp
	}
	return out
}

// PayEMI applies one installment against the loan. balance is the
// available account balance; the caller debits Payment.Amount on
// success. The interest part accrues on the current outstanding; the
// remainder of the EMI retires principal, floored at zero for the final
// skewed installment.
func (b *Book) PayEMI(ln *model.Loan, balance float64, txRef string) (Payment, error) {
	if !ln.Active {
		return Payment{}, fmt.Errorf("loan %s: %w", ln.LoanID, model.ErrLoanClosed)
	}
	emi := EMI(ln.Principal, ln.AnnualRate, ln.TenureMonth)
	if emi > balance {
		return Payment{}, fmt.Errorf("EMI %.2f exceeds balance: %w", emi, model.ErrInsufficientFunds)
	}
	monthlyRate := ln.AnnualRate / 12.0 / 100.0
	interestPart := ln.Outstanding * monthlyRate
	principalPart := emi - interestPart
	if principalPart < 0 {
		principalPart = 0
	}
	ln.Outstanding -= principalPart
	ln.EMIRefs = append(ln.EMIRefs, txRef)
	p := Payment{Amount: emi, PrincipalPart: principalPart, InterestPart: interestPart}
	p.Closed = b.maybeClose(ln)
	return p, nil
}

// Prepay applies a voluntary repayment. The applied amount is clamped to
// the outstanding balance: a borrower never pays more than is owed.
func (b *Book) Prepay(ln *model.Loan, requested, balance float64) (Payment, error) {
	if !ln.Active {
		return Payment{}, fmt.Errorf("loan %s: %w", ln.LoanID, model.ErrLoanClosed)
	}
	if requested <= 0 {
		return Payment{}, fmt.Errorf("prepayment must be positive: %w", model.ErrValidation)
	}
	if requested > balance {
		return Payment{}, fmt.Errorf("prepayment exceeds balance: %w", model.ErrInsufficientFunds)
	}
	applied := requested
	if applied > ln.Outstanding {
		applied = ln.Outstanding
	}
	ln.Outstanding -= applied
	p := Payment{Amount: applied, PrincipalPart: applied}
	p.Closed = b.maybeClose(ln)
	return p, nil
}

// maybeClose clamps and deactivates a loan whose outstanding has fallen
// within the closure epsilon. Closure is terminal.
func (b *Book) maybeClose(ln *model.Loan) bool {
	if ln.Outstanding <= ClosureEpsilon {
		ln.Outstanding = 0
		ln.Active = false
		return true
	}
	return false
}
