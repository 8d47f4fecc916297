// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package identity implements PIN hashing, verification and the
// failed-attempt lockout bookkeeping. Raw PINs are never stored or
// logged; only the digest is kept on the account record.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/vaultteller/vaultteller/internal/model"
)

// MaxFailedAttempts is the number of consecutive PIN failures after
// which an account transitions to LOCKED.
const MaxFailedAttempts = 3

// pinSalt is a fixed application salt. The digest must be deterministic
// so that stored hashes remain comparable across sessions and backends.
var pinSalt = []byte("vaultteller.pin.v1")

const pinIterations = 4096

// HashPIN returns the hex-encoded one-way digest of a PIN. Equal inputs
// always produce equal outputs.
func HashPIN(pin string) string {
	sum := pbkdf2.Key([]byte(pin), pinSalt, pinIterations, sha256.Size, sha256.New)
	return hex.EncodeToString(sum)
}

// ValidPIN reports whether a candidate PIN is exactly four digits.
func ValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Verify reports whether the PIN matches the account's stored digest.
// It does not touch the failure counters; use RecordFailure and
// RecordSuccess for that, so the caller controls when lockout applies.
func Verify(a *model.Account, pin string) bool {
	return a.PinHash == HashPIN(pin)
}

// RecordFailure increments the failed-attempt counter and transitions
// the account to LOCKED on the third consecutive failure. It returns
// true when the account just locked.
func RecordFailure(a *model.Account, now time.Time) bool {
	a.FailedPinAttempts++
	a.LastFailedAttempt = now.Format("2006-01-02")
	if a.FailedPinAttempts >= MaxFailedAttempts {
		a.Status = model.StatusLocked
		return true
	}
	return false
}

// RecordSuccess resets the failed-attempt counter.
func RecordSuccess(a *model.Account) {
	a.FailedPinAttempts = 0
}

// ChangePIN replaces the account's digest after verifying the current
// PIN. The new digest is set atomically with respect to the caller's
// account lock; there is no intermediate state.
func ChangePIN(a *model.Account, currentPIN, newPIN string) error {
	if !ValidPIN(newPIN) {
		return fmt.Errorf("new PIN must be 4 digits: %w", model.ErrValidation)
	}
	if !Verify(a, currentPIN) {
		return fmt.Errorf("current PIN rejected: %w", model.ErrAuth)
	}
	a.PinHash = HashPIN(newPIN)
	return nil
}
