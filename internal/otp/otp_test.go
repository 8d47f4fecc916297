// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package otp

import (
	"math/rand"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
}

func TestOTPShape(t *testing.T) {
	g := New(rand.NewSource(1), fixedClock)
	for i := 0; i < 100; i++ {
		code := g.OTP()
		if len(code) != 6 {
			t.Fatalf("OTP %q has length %d", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("OTP %q contains non-digit", code)
			}
		}
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	a := New(rand.NewSource(42), fixedClock)
	b := New(rand.NewSource(42), fixedClock)
	if a.OTP() != b.OTP() || a.CardNumber() != b.CardNumber() {
		t.Fatal("same seed must reproduce the same sequence")
	}
}

func TestCardCredentials(t *testing.T) {
	g := New(rand.NewSource(7), fixedClock)

	num := g.CardNumber()
	if len(num) != 16 {
		t.Fatalf("card number %q has length %d", num, len(num))
	}
	cvv := g.CVV()
	if len(cvv) != 3 {
		t.Fatalf("CVV %q has length %d", cvv, len(cvv))
	}
	if exp := g.Expiry(); exp != "07/29" {
		t.Fatalf("expiry = %q, want 07/29", exp)
	}
}

func TestAccountNumberFormat(t *testing.T) {
	g := New(rand.NewSource(7), fixedClock)
	acc := g.AccountNumber()
	if len(acc) < 3 || acc[:3] != "ACC" {
		t.Fatalf("account number %q lacks ACC prefix", acc)
	}
}
