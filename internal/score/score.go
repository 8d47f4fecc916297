// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package score derives the internal credit score. The score is a pure
// function of the account, its loans and its ledger history; it is
// computed on demand and never persisted.
package score

import (
	"math"
	"time"

	"github.com/vaultteller/vaultteller/internal/model"
)

const (
	base         = 50
	minScore     = 0
	maxScore     = 100
	yearBonus    = 10
	twoYearBonus = 5
	depositBonus = 10
	fraudPenalty = 20
	maxEMIBonus  = 5
)

// Compute returns the credit score in [0,100]. Weights: start at 50;
// +10 for account age over a year, +5 more over two years; per loan,
// -round(outstanding/(principal+1)*10) and +min(5, EMI payments); +10
// for more than twelve deposits; -20 when fraud-flagged.
func Compute(a *model.Account, loans []model.Loan, history []model.Transaction, now time.Time) int {
	s := base

	ageDays := int(now.Sub(a.CreatedAt).Hours() / 24)
	if ageDays > 365 {
		s += yearBonus
	}
	if ageDays > 2*365 {
		s += twoYearBonus
	}

	for _, l := range loans {
		s -= int(math.Round(l.Outstanding / (l.Principal + 1) * 10))
		emiBonus := len(l.EMIRefs)
		if emiBonus > maxEMIBonus {
			emiBonus = maxEMIBonus
		}
		s += emiBonus
	}

	deposits := 0
	for _, tx := range history {
		if tx.Kind == model.TxDeposit {
			deposits++
		}
	}
	if deposits > 12 {
		s += depositBonus
	}

	if a.FraudFlagged {
		s -= fraudPenalty
	}

	if s < minScore {
		s = minScore
	}
	if s > maxScore {
		s = maxScore
	}
	return s
}
