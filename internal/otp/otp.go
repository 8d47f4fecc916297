// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package otp generates demo one-time passwords and card credentials
// from a pluggable random source. The source system treats OTP delivery
// as a console demo stub, so cryptographic strength is explicitly not a
// requirement here; tests inject a seeded source for determinism.
package otp

import (
	"fmt"
	"math/rand"
	"time"
)

// Generator produces OTPs and card credentials.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

// New returns a generator backed by the given source and clock. A nil
// source falls back to a time-seeded one; a nil clock uses time.Now.
func New(src rand.Source, now func() time.Time) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rnd: rand.New(src), now: now}
}

// OTP returns a six-digit one-time password.
func (g *Generator) OTP() string {
	return fmt.Sprintf("%06d", 100000+g.rnd.Intn(900000))
}

// CardNumber returns a 16-digit card number.
func (g *Generator) CardNumber() string {
	digits := make([]byte, 16)
	for i := range digits {
		digits[i] = byte('0' + g.rnd.Intn(10))
	}
	return string(digits)
}

// CVV returns a zero-padded three-digit CVV.
func (g *Generator) CVV() string {
	return fmt.Sprintf("%03d", g.rnd.Intn(1000))
}

// Expiry returns the card expiry four years out, formatted MM/yy.
func (g *Generator) Expiry() string {
	return g.now().AddDate(4, 0, 0).Format("01/06")
}

// AccountNumber allocates an account number in the reference format:
// "ACC" + epoch millis + a four-digit disambiguator.
func (g *Generator) AccountNumber() string {
	return fmt.Sprintf("ACC%d%d", g.now().UnixMilli(), 1000+g.rnd.Intn(9000))
}
