// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/vaultteller/vaultteller/internal/model"
)

func TestHashPINDeterministic(t *testing.T) {
	if HashPIN("1234") != HashPIN("1234") {
		t.Fatal("equal PINs must produce equal digests")
	}
	if HashPIN("1234") == HashPIN("1235") {
		t.Fatal("different PINs should not collide")
	}
}

func TestValidPIN(t *testing.T) {
	cases := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidPIN(c.pin); got != c.want {
			t.Errorf("ValidPIN(%q) = %v, want %v", c.pin, got, c.want)
		}
	}
}

func TestThreeStrikesLockout(t *testing.T) {
	a := &model.Account{PinHash: HashPIN("1234"), Status: model.StatusActive}
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 2; i++ {
		if locked := RecordFailure(a, now); locked {
			t.Fatalf("locked after %d failures", i)
		}
	}
	if !RecordFailure(a, now) {
		t.Fatal("third failure must lock the account")
	}
	if a.Status != model.StatusLocked {
		t.Fatalf("status = %s, want LOCKED", a.Status)
	}
	if a.LastFailedAttempt != "2025-06-01" {
		t.Fatalf("last failed attempt = %q", a.LastFailedAttempt)
	}
}

func TestRecordSuccessResetsCounter(t *testing.T) {
	a := &model.Account{PinHash: HashPIN("1234"), Status: model.StatusActive}
	RecordFailure(a, time.Now())
	RecordFailure(a, time.Now())
	RecordSuccess(a)
	if a.FailedPinAttempts != 0 {
		t.Fatalf("counter = %d after success, want 0", a.FailedPinAttempts)
	}
}

func TestChangePIN(t *testing.T) {
	a := &model.Account{PinHash: HashPIN("1234")}

	if err := ChangePIN(a, "9999", "5678"); !errors.Is(err, model.ErrAuth) {
		t.Fatalf("wrong current PIN: err = %v, want ErrAuth", err)
	}
	if err := ChangePIN(a, "1234", "56"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("short new PIN: err = %v, want ErrValidation", err)
	}
	if err := ChangePIN(a, "1234", "5678"); err != nil {
		t.Fatalf("valid change failed: %v", err)
	}
	if !Verify(a, "5678") || Verify(a, "1234") {
		t.Fatal("digest not swapped to the new PIN")
	}
}
