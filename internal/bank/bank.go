// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package bank wires the account store, ledger, loan book, fraud monitor
// and credit scorer into one engine. Every operation that reads and then
// writes account state runs under that account's lock; transfers take
// both locks in account-number order. After each successful mutation the
// engine asks the persistence layer to commit a full snapshot.
package bank

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vaultteller/vaultteller/internal/fraud"
	"github.com/vaultteller/vaultteller/internal/identity"
	"github.com/vaultteller/vaultteller/internal/ledger"
	"github.com/vaultteller/vaultteller/internal/loan"
	"github.com/vaultteller/vaultteller/internal/logging"
	"github.com/vaultteller/vaultteller/internal/model"
	"github.com/vaultteller/vaultteller/internal/otp"
	"github.com/vaultteller/vaultteller/internal/score"
)

// Policy carries the monetary knobs the engine enforces.
type Policy struct {
	SavingsRate            float64
	ATMFee                 float64
	MaintenanceFee         float64
	LargeTransferThreshold float64
	DailyWithdrawalLimit   float64
	WithdrawOTPThreshold   float64
	TransferOTPThreshold   float64
}

// Persister is the slice of the storage layer the engine needs: commit a
// full snapshot, release resources on shutdown.
type Persister interface {
	Save(*model.Snapshot) error
	Close() error
}

// Engine is the banking core. It owns all account records; loans and
// transactions live in their dedicated stores, cross-referenced by
// account number only.
type Engine struct {
	mu       sync.RWMutex // guards accounts and locks maps
	accounts map[string]*model.Account
	locks    map[string]*sync.Mutex

	ledger *ledger.Ledger
	loans  *loan.Book
	store  Persister
	policy Policy
	gen    *otp.Generator
	now    func() time.Time

	perrMu     sync.Mutex
	persistErr error
}

// New builds an engine from a restored snapshot. A nil snapshot starts
// empty. The clock is injectable for tests; nil means time.Now.
func New(snap *model.Snapshot, store Persister, policy Policy, gen *otp.Generator, now func() time.Time) *Engine {
	if snap == nil {
		snap = model.NewSnapshot()
	}
	if now == nil {
		now = time.Now
	}
	if gen == nil {
		gen = otp.New(nil, now)
	}
	e := &Engine{
		accounts: make(map[string]*model.Account, len(snap.Accounts)),
		locks:    map[string]*sync.Mutex{},
		ledger:   ledger.Restore(snap.Transactions),
		loans:    loan.Restore(snap.LoansByAccount),
		store:    store,
		policy:   policy,
		gen:      gen,
		now:      now,
	}
	for i := range snap.Accounts {
		a := snap.Accounts[i]
		e.accounts[a.AccountNo] = &a
	}
	return e
}

// Close flushes a final snapshot and releases the storage backend.
func (e *Engine) Close() error {
	e.commit()
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Policy returns the engine's active policy.
func (e *Engine) Policy() Policy { return e.policy }

// lockFor returns the mutex serializing operations on one account,
// creating it on first use.
func (e *Engine) lockFor(accountNo string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[accountNo]
	if !ok {
		l = &sync.Mutex{}
		e.locks[accountNo] = l
	}
	return l
}

func (e *Engine) get(accountNo string) (*model.Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.accounts[accountNo]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountNo, model.ErrNotFound)
	}
	return a, nil
}

// commit writes the full state through the persistence layer. A failed
// write is logged and remembered; the in-memory state stays
// authoritative for the rest of the session and the process continues.
func (e *Engine) commit() {
	if e.store == nil {
		return
	}
	snap := e.Snapshot()
	if err := e.store.Save(snap); err != nil {
		wrapped := fmt.Errorf("%w: %v", model.ErrPersistence, err)
		logging.Errorf("snapshot commit failed: %v", err)
		e.perrMu.Lock()
		e.persistErr = wrapped
		e.perrMu.Unlock()
	}
}

// PersistenceWarning returns and clears the last failed-commit error, if
// any. The CLI surfaces it as a warning next to the operation result.
func (e *Engine) PersistenceWarning() error {
	e.perrMu.Lock()
	defer e.perrMu.Unlock()
	err := e.persistErr
	e.persistErr = nil
	return err
}

// Snapshot copies the full current state into a versioned snapshot.
// Accounts are sorted by account number for deterministic output.
func (e *Engine) Snapshot() *model.Snapshot {
	snap := model.NewSnapshot()
	snap.SavedAt = e.now()

	e.mu.RLock()
	nos := make([]string, 0, len(e.accounts))
	for no := range e.accounts {
		nos = append(nos, no)
	}
	e.mu.RUnlock()
	sort.Strings(nos)

	for _, no := range nos {
		l := e.lockFor(no)
		l.Lock()
		if a, err := e.get(no); err == nil {
			snap.Accounts = append(snap.Accounts, *a)
		}
		l.Unlock()
	}
	snap.Transactions = e.ledger.All()
	snap.LoansByAccount = e.loans.All()
	return snap
}

// OpenAccount allocates a fresh account with a generated card and emits
// the initial DEPOSIT transaction.
func (e *Engine) OpenAccount(holderName string, kind model.AccountKind, pin string, initialDeposit float64) (model.Account, error) {
	if !identity.ValidPIN(pin) {
		return model.Account{}, fmt.Errorf("PIN must be 4 digits: %w", model.ErrValidation)
	}
	if initialDeposit < 0 {
		return model.Account{}, fmt.Errorf("initial deposit must not be negative: %w", model.ErrValidation)
	}
	rate := 0.0
	if kind == model.KindSavings {
		rate = e.policy.SavingsRate
	}
	now := e.now()
	a := &model.Account{
		AccountNo:            e.gen.AccountNumber(),
		HolderName:           holderName,
		PinHash:              identity.HashPIN(pin),
		Kind:                 kind,
		Balance:              initialDeposit,
		AnnualInterestRate:   rate,
		Status:               model.StatusActive,
		CreatedAt:            now,
		DailyWithdrawalLimit: e.policy.DailyWithdrawalLimit,
		Card: model.Card{
			Number: e.gen.CardNumber(),
			CVV:    e.gen.CVV(),
			Expiry: e.gen.Expiry(),
		},
	}

	e.mu.Lock()
	if _, exists := e.accounts[a.AccountNo]; exists {
		e.mu.Unlock()
		return model.Account{}, fmt.Errorf("account number collision for %s: %w", a.AccountNo, model.ErrValidation)
	}
	e.accounts[a.AccountNo] = a
	e.mu.Unlock()

	e.ledger.Append(a.AccountNo, model.TxDeposit, initialDeposit, "Initial deposit", a.Balance, now)
	e.commit()
	return *a, nil
}

// Authenticate verifies an account number and PIN. CLOSED and LOCKED
// accounts are refused outright. FROZEN accounts still authenticate; the
// caller is expected to warn and restrict. The third consecutive PIN
// failure locks the account; a later attempt is refused before any PIN
// check.
func (e *Engine) Authenticate(accountNo, pin string) (model.Account, error) {
	a, err := e.get(accountNo)
	if err != nil {
		return model.Account{}, err
	}
	l := e.lockFor(accountNo)
	l.Lock()

	switch a.Status {
	case model.StatusClosed:
		l.Unlock()
		return model.Account{}, fmt.Errorf("account %s: %w", accountNo, model.ErrClosedAccount)
	case model.StatusLocked:
		l.Unlock()
		return model.Account{}, fmt.Errorf("account %s: %w", accountNo, model.ErrLockedAccount)
	}

	if !identity.Verify(a, pin) {
		locked := identity.RecordFailure(a, e.now())
		attempts := a.FailedPinAttempts
		l.Unlock()
		e.commit()
		if locked {
			return model.Account{}, fmt.Errorf("account %s locked after %d failures: %w", accountNo, attempts, model.ErrLockedAccount)
		}
		return model.Account{}, fmt.Errorf("wrong PIN (%d/%d): %w", attempts, identity.MaxFailedAttempts, model.ErrAuth)
	}
	identity.RecordSuccess(a)
	cp := *a
	l.Unlock()
	e.commit()
	return cp, nil
}

// Account returns a copy of an account record.
func (e *Engine) Account(accountNo string) (model.Account, error) {
	a, err := e.get(accountNo)
	if err != nil {
		return model.Account{}, err
	}
	l := e.lockFor(accountNo)
	l.Lock()
	defer l.Unlock()
	return *a, nil
}

// ListAccounts returns copies of all accounts sorted by account number.
func (e *Engine) ListAccounts() []model.Account {
	snap := e.Snapshot()
	return snap.Accounts
}

// Deposit credits the account and appends a DEPOSIT entry.
func (e *Engine) Deposit(accountNo string, amount float64) (model.Transaction, error) {
	if amount <= 0 {
		return model.Transaction{}, fmt.Errorf("deposit must be positive: %w", model.ErrValidation)
	}
	a, err := e.get(accountNo)
	if err != nil {
		return model.Transaction{}, err
	}
	l := e.lockFor(accountNo)
	l.Lock()
	a.Balance += amount
	tx := e.ledger.Append(accountNo, model.TxDeposit, amount, "Cash deposit", a.Balance, e.now())
	l.Unlock()

	e.commit()
	return tx, nil
}

// NeedsWithdrawOTP reports whether a withdrawal of this size requires an
// OTP confirmation from the caller before Withdraw may be invoked.
func (e *Engine) NeedsWithdrawOTP(amount float64) bool {
	return amount > e.policy.WithdrawOTPThreshold
}

// NeedsTransferOTP reports whether a transfer of this size requires an
// OTP confirmation.
func (e *Engine) NeedsTransferOTP(amount float64) bool {
	return amount > e.policy.TransferOTPThreshold
}

// WithdrawResult reports the ledger entries of a withdrawal and whether
// the fraud monitor flagged the account.
type WithdrawResult struct {
	Withdrawal model.Transaction
	Fee        model.Transaction
	Flagged    bool
}

// Withdraw debits amount plus the ATM fee. Checks run in order: positive
// amount, daily-limit window reset, daily limit, covering balance. OTP
// confirmation for large amounts is the caller's duty (NeedsWithdrawOTP).
// On success the daily tally advances and the single-withdrawal fraud
// rule is evaluated. Nothing is mutated on any failure.
func (e *Engine) Withdraw(accountNo string, amount float64) (WithdrawResult, error) {
	if amount <= 0 {
		return WithdrawResult{}, fmt.Errorf("withdrawal must be positive: %w", model.ErrValidation)
	}
	a, err := e.get(accountNo)
	if err != nil {
		return WithdrawResult{}, err
	}
	l := e.lockFor(accountNo)
	l.Lock()

	now := e.now()
	today := now.Format("2006-01-02")
	withdrawnToday := a.WithdrawnToday
	if a.LastWithdrawalDate != today {
		withdrawnToday = 0
	}
	if withdrawnToday+amount > a.DailyWithdrawalLimit {
		l.Unlock()
		return WithdrawResult{}, fmt.Errorf("allowed %.2f per day: %w", a.DailyWithdrawalLimit, model.ErrLimitExceeded)
	}
	if amount+e.policy.ATMFee > a.Balance {
		l.Unlock()
		return WithdrawResult{}, fmt.Errorf("need %.2f including fee: %w", amount+e.policy.ATMFee, model.ErrInsufficientFunds)
	}

	a.LastWithdrawalDate = today
	a.WithdrawnToday = withdrawnToday + amount
	a.Balance -= amount + e.policy.ATMFee

	res := WithdrawResult{}
	res.Withdrawal = e.ledger.Append(accountNo, model.TxWithdraw, amount,
		fmt.Sprintf("ATM withdrawal (fee %.2f)", e.policy.ATMFee), a.Balance, now)
	res.Fee = e.ledger.Append(accountNo, model.TxFee, e.policy.ATMFee, "ATM fee", a.Balance, now)

	if fraud.SuspiciousWithdrawal(amount, e.policy.LargeTransferThreshold) {
		fraud.FlagWithdrawal(a, amount)
		res.Flagged = true
	}
	l.Unlock()

	e.commit()
	return res, nil
}

// PreflightTransfer validates a transfer's shape and applies the
// large-transfer fraud flag to the source. The flag sticks regardless of
// whether the OTP confirmation that may follow succeeds. It returns
// whether the caller must run an OTP confirmation before Transfer.
func (e *Engine) PreflightTransfer(fromNo, toNo string, amount float64) (needsOTP bool, flagged bool, err error) {
	if amount <= 0 {
		return false, false, fmt.Errorf("transfer must be positive: %w", model.ErrValidation)
	}
	if fromNo == toNo {
		return false, false, fmt.Errorf("cannot transfer to the same account: %w", model.ErrValidation)
	}
	src, err := e.get(fromNo)
	if err != nil {
		return false, false, err
	}
	if _, err := e.get(toNo); err != nil {
		return false, false, err
	}

	l := e.lockFor(fromNo)
	l.Lock()
	if amount > src.Balance {
		l.Unlock()
		return false, false, fmt.Errorf("transfer of %.2f: %w", amount, model.ErrInsufficientFunds)
	}
	if fraud.SuspiciousTransfer(amount, e.policy.LargeTransferThreshold) {
		fraud.FlagTransfer(src, amount)
		flagged = true
	}
	l.Unlock()
	if flagged {
		e.commit()
	}
	return e.NeedsTransferOTP(amount), flagged, nil
}

// TransferResult reports both sides of a completed transfer.
type TransferResult struct {
	Debit   model.Transaction
	Credit  model.Transaction
	Flagged bool
}

// Transfer moves amount between two accounts as one atomic unit: both
// balances change and both TRANSFER entries append, or nothing happens.
// The two account locks are taken in account-number order so that two
// opposite-direction transfers cannot deadlock.
func (e *Engine) Transfer(fromNo, toNo string, amount float64) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, fmt.Errorf("transfer must be positive: %w", model.ErrValidation)
	}
	if fromNo == toNo {
		return TransferResult{}, fmt.Errorf("cannot transfer to the same account: %w", model.ErrValidation)
	}
	src, err := e.get(fromNo)
	if err != nil {
		return TransferResult{}, err
	}
	dst, err := e.get(toNo)
	if err != nil {
		return TransferResult{}, err
	}

	first, second := e.lockFor(fromNo), e.lockFor(toNo)
	if fromNo > toNo {
		first, second = second, first
	}
	first.Lock()
	second.Lock()

	if amount > src.Balance {
		second.Unlock()
		first.Unlock()
		return TransferResult{}, fmt.Errorf("transfer of %.2f: %w", amount, model.ErrInsufficientFunds)
	}

	res := TransferResult{}
	if fraud.SuspiciousTransfer(amount, e.policy.LargeTransferThreshold) {
		fraud.FlagTransfer(src, amount)
		res.Flagged = true
	}

	now := e.now()
	src.Balance -= amount
	dst.Balance += amount
	res.Debit = e.ledger.Append(fromNo, model.TxTransfer, amount, "Transfer to "+toNo, src.Balance, now)
	res.Credit = e.ledger.Append(toNo, model.TxTransfer, amount, "Transfer from "+fromNo, dst.Balance, now)

	second.Unlock()
	first.Unlock()

	e.commit()
	return res, nil
}

// ChangePIN swaps the PIN digest after verifying the current PIN.
func (e *Engine) ChangePIN(accountNo, currentPIN, newPIN string) error {
	a, err := e.get(accountNo)
	if err != nil {
		return err
	}
	l := e.lockFor(accountNo)
	l.Lock()
	err = identity.ChangePIN(a, currentPIN, newPIN)
	l.Unlock()
	if err != nil {
		return err
	}
	e.commit()
	return nil
}

// SetStatus applies an administrative status change. Legal transitions:
// ACTIVE<->FROZEN, and ACTIVE/FROZEN/LOCKED -> CLOSED. Reactivating a
// LOCKED account (admin unlock) maps to LOCKED -> ACTIVE. CLOSED is
// terminal.
func (e *Engine) SetStatus(accountNo string, status model.AccountStatus) error {
	a, err := e.get(accountNo)
	if err != nil {
		return err
	}
	l := e.lockFor(accountNo)
	l.Lock()

	if !legalTransition(a.Status, status) {
		l.Unlock()
		return fmt.Errorf("illegal status transition %s -> %s: %w", a.Status, status, model.ErrValidation)
	}
	a.Status = status
	if status == model.StatusActive {
		// Admin reactivation clears the lockout counter.
		a.FailedPinAttempts = 0
	}
	l.Unlock()

	e.commit()
	return nil
}

func legalTransition(from, to model.AccountStatus) bool {
	if from == model.StatusClosed {
		return false
	}
	switch to {
	case model.StatusClosed:
		return true
	case model.StatusFrozen, model.StatusActive:
		return from == model.StatusActive || from == model.StatusFrozen || from == model.StatusLocked
	case model.StatusLocked:
		// Locking is driven by the identity guard, not by admins.
		return false
	}
	return false
}

// SetGlobalSavingsRate updates the annual rate on every savings account
// and returns how many were touched.
func (e *Engine) SetGlobalSavingsRate(rate float64) (int, error) {
	if rate < 0 {
		return 0, fmt.Errorf("rate must not be negative: %w", model.ErrValidation)
	}
	updated := 0
	for _, no := range e.accountNumbers() {
		l := e.lockFor(no)
		l.Lock()
		if a, err := e.get(no); err == nil && a.Kind == model.KindSavings {
			a.AnnualInterestRate = rate
			updated++
		}
		l.Unlock()
	}
	e.policy.SavingsRate = rate
	e.commit()
	return updated, nil
}

// ApplyMonthlyInterest credits one month of interest to every ACTIVE
// savings account and appends an INTEREST entry per account.
func (e *Engine) ApplyMonthlyInterest() (int, error) {
	applied := 0
	now := e.now()
	for _, no := range e.accountNumbers() {
		l := e.lockFor(no)
		l.Lock()
		if a, err := e.get(no); err == nil && a.Kind == model.KindSavings && a.Status == model.StatusActive {
			interest := a.Balance * a.AnnualInterestRate / 12.0 / 100.0
			a.Balance += interest
			e.ledger.Append(no, model.TxInterest, interest, "Monthly interest", a.Balance, now)
			applied++
		}
		l.Unlock()
	}
	e.commit()
	return applied, nil
}

// ApplyMonthlyFee debits the maintenance fee from every ACTIVE current
// account and appends a FEE entry per account. Balances never go
// negative: accounts that cannot cover the fee are skipped.
func (e *Engine) ApplyMonthlyFee() (int, error) {
	applied := 0
	now := e.now()
	for _, no := range e.accountNumbers() {
		l := e.lockFor(no)
		l.Lock()
		if a, err := e.get(no); err == nil && a.Kind == model.KindCurrent && a.Status == model.StatusActive {
			if a.Balance >= e.policy.MaintenanceFee {
				a.Balance -= e.policy.MaintenanceFee
				e.ledger.Append(no, model.TxFee, e.policy.MaintenanceFee, "Monthly maintenance", a.Balance, now)
				applied++
			}
		}
		l.Unlock()
	}
	e.commit()
	return applied, nil
}

func (e *Engine) accountNumbers() []string {
	e.mu.RLock()
	nos := make([]string, 0, len(e.accounts))
	for no := range e.accounts {
		nos = append(nos, no)
	}
	e.mu.RUnlock()
	sort.Strings(nos)
	return nos
}

// ApplyLoan disburses a loan: the principal credits the account balance
// and a LOAN_DISBURSE entry is appended. Returns the loan and its EMI.
func (e *Engine) ApplyLoan(accountNo, category string, principal, annualRate float64, tenureMonths int) (model.Loan, float64, error) {
	a, err := e.get(accountNo)
	if err != nil {
		return model.Loan{}, 0, err
	}
	l := e.lockFor(accountNo)
	l.Lock()

	ln, err := e.loans.Disburse(accountNo, category, principal, annualRate, tenureMonths, e.now())
	if err != nil {
		l.Unlock()
		return model.Loan{}, 0, err
	}
	a.Balance += principal
	e.ledger.Append(accountNo, model.TxLoanDisburse, principal, "Loan disbursed ID: "+ln.LoanID, a.Balance, e.now())
	out := *ln
	l.Unlock()

	e.commit()
	return out, loan.EMI(principal, annualRate, tenureMonths), nil
}

// PayEMI pays one installment on a loan, debiting the EMI from the
// account and recording the principal/interest split in the ledger.
func (e *Engine) PayEMI(accountNo, loanID string) (loan.Payment, model.Loan, error) {
	a, err := e.get(accountNo)
	if err != nil {
		return loan.Payment{}, model.Loan{}, err
	}
	ln, err := e.loans.Find(accountNo, loanID)
	if err != nil {
		return loan.Payment{}, model.Loan{}, err
	}
	l := e.lockFor(accountNo)
	l.Lock()

	now := e.now()
	txRef := fmt.Sprintf("EMI:%d", now.UnixMilli())
	p, err := e.loans.PayEMI(ln, a.Balance, txRef)
	if err != nil {
		l.Unlock()
		return loan.Payment{}, model.Loan{}, err
	}
	a.Balance -= p.Amount
	desc := fmt.Sprintf("Loan EMI payment ID: %s (Principal:%.2f Interest:%.2f)", ln.LoanID, p.PrincipalPart, p.InterestPart)
	e.ledger.Append(accountNo, model.TxLoanEMI, p.Amount, desc, a.Balance, now)
	out := *ln
	l.Unlock()

	e.commit()
	return p, out, nil
}

// PrepayLoan applies a voluntary repayment, clamped to the outstanding
// balance, and appends a LOAN_REPAY entry.
func (e *Engine) PrepayLoan(accountNo, loanID string, amount float64) (loan.Payment, model.Loan, error) {
	a, err := e.get(accountNo)
	if err != nil {
		return loan.Payment{}, model.Loan{}, err
	}
	ln, err := e.loans.Find(accountNo, loanID)
	if err != nil {
		return loan.Payment{}, model.Loan{}, err
	}
	l := e.lockFor(accountNo)
	l.Lock()

	p, err := e.loans.Prepay(ln, amount, a.Balance)
	if err != nil {
		l.Unlock()
		return loan.Payment{}, model.Loan{}, err
	}
	a.Balance -= p.Amount
	desc := fmt.Sprintf("Loan prepayment ID: %s", ln.LoanID)
	e.ledger.Append(accountNo, model.TxLoanRepay, p.Amount, desc, a.Balance, e.now())
	out := *ln
	l.Unlock()

	e.commit()
	return p, out, nil
}

// Loans returns copies of an account's loans.
func (e *Engine) Loans(accountNo string) []model.Loan {
	return e.loans.ForAccount(accountNo)
}

// AllLoans returns copies of every loan keyed by account number.
func (e *Engine) AllLoans() map[string][]model.Loan {
	return e.loans.All()
}

// Transactions returns an account's full history in insertion order.
func (e *Engine) Transactions(accountNo string) []model.Transaction {
	return e.ledger.ForAccount(accountNo)
}

// AllTransactions returns the whole ledger in insertion order.
func (e *Engine) AllTransactions() []model.Transaction {
	return e.ledger.All()
}

// MiniStatement returns the last five entries for an account.
func (e *Engine) MiniStatement(accountNo string) []model.Transaction {
	return e.ledger.MiniStatement(accountNo)
}

// TransactionPage returns one page of history; ok is false past the end.
func (e *Engine) TransactionPage(accountNo string, page, pageSize int) ([]model.Transaction, int, bool) {
	return e.ledger.Page(accountNo, page, pageSize)
}

// CreditScore computes the on-demand credit score for an account.
func (e *Engine) CreditScore(accountNo string) (int, error) {
	a, err := e.get(accountNo)
	if err != nil {
		return 0, err
	}
	l := e.lockFor(accountNo)
	l.Lock()
	cp := *a
	l.Unlock()
	return score.Compute(&cp, e.loans.ForAccount(accountNo), e.ledger.ForAccount(accountNo), e.now()), nil
}

// FraudScan runs the batch rule over the whole ledger and returns the
// flagged account numbers. Flags are sticky; the scan never clears one.
func (e *Engine) FraudScan() []string {
	var flagged []string
	txs := e.ledger.All()
	now := e.now()
	for _, no := range e.accountNumbers() {
		l := e.lockFor(no)
		l.Lock()
		if a, err := e.get(no); err == nil {
			if res := fraud.ScanHistory([]*model.Account{a}, txs, now); len(res) > 0 {
				flagged = append(flagged, res...)
			}
		}
		l.Unlock()
	}
	if len(flagged) > 0 {
		e.commit()
	}
	return flagged
}
