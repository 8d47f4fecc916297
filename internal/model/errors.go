// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "errors"

// Sentinel errors for the business-rule taxonomy. Operations wrap these
// with context via fmt.Errorf("...: %w", ...); callers match with
// errors.Is. A failed operation never partially mutates state.
var (
	// ErrValidation covers malformed amounts, PINs and tenures. Callers
	// are expected to re-prompt.
	ErrValidation = errors.New("validation failed")

	// ErrAuth is returned on PIN or OTP mismatch.
	ErrAuth = errors.New("authentication failed")

	// ErrLockedAccount marks an account locked after repeated PIN
	// failures. Only an admin reactivation clears it.
	ErrLockedAccount = errors.New("account locked")

	// ErrClosedAccount marks the terminal CLOSED state.
	ErrClosedAccount = errors.New("account closed")

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLimitExceeded     = errors.New("daily withdrawal limit exceeded")
	ErrLoanClosed        = errors.New("loan closed")
	ErrNotFound          = errors.New("not found")

	// ErrPersistence signals a failed durable commit. The in-memory
	// state remains authoritative for the rest of the session.
	ErrPersistence = errors.New("persistence failure")
)
