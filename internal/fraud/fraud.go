// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package fraud evaluates the stateless fraud rules. Flags are sticky:
// the monitor sets them but never clears them.
package fraud

import (
	"fmt"
	"time"

	"github.com/vaultteller/vaultteller/internal/model"
)

// ManyTransfersReason is the flag reason for the batch transfer-volume rule.
const ManyTransfersReason = "Many transfers today"

// maxTransfersPerDay is how many TRANSFER entries an account may log in a
// trailing 24h window before the batch rule flags it.
const maxTransfersPerDay = 10

// SuspiciousWithdrawal reports whether a single withdrawal should flag
// the account: amount above half the large-transfer threshold.
func SuspiciousWithdrawal(amount, largeTransferThreshold float64) bool {
	return amount > largeTransferThreshold/2
}

// SuspiciousTransfer reports whether a single transfer should flag the
// source account: amount above the large-transfer threshold.
func SuspiciousTransfer(amount, largeTransferThreshold float64) bool {
	return amount > largeTransferThreshold
}

// Flag marks an account for manual review. Flags are monotonic within a
// session; clearing is an administrative action outside this core.
func Flag(a *model.Account, reason string) {
	a.FraudFlagged = true
	a.FraudReason = reason
}

// FlagWithdrawal applies the single-withdrawal rule reason.
func FlagWithdrawal(a *model.Account, amount float64) {
	Flag(a, fmt.Sprintf("Large withdrawal %.2f", amount))
}

// FlagTransfer applies the single-transfer rule reason.
func FlagTransfer(a *model.Account, amount float64) {
	Flag(a, fmt.Sprintf("Large transfer %.2f", amount))
}

// ScanHistory runs the batch rule over the whole ledger: an account with
// more than ten TRANSFER entries within the trailing 24 hours is flagged.
// It returns the account numbers that were newly or re-flagged.
func ScanHistory(accounts []*model.Account, transactions []model.Transaction, now time.Time) []string {
	cutoff := now.Add(-24 * time.Hour)
	recent := map[string]int{}
	for _, tx := range transactions {
		if tx.Kind == model.TxTransfer && tx.Timestamp.After(cutoff) {
			recent[tx.AccountNo]++
		}
	}

	var flagged []string
	for _, a := range accounts {
		if recent[a.AccountNo] > maxTransfersPerDay {
			Flag(a, ManyTransfersReason)
			flagged = append(flagged, a.AccountNo)
		}
	}
	return flagged
}
