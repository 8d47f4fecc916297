// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"strings"
	"testing"
)

func TestTranslateEnglish(t *testing.T) {
	Init("en")
	got := T("account.balance", 1234.5)
	if got != "Balance: 1234.50" {
		t.Fatalf("T(account.balance) = %q", got)
	}
}

func TestTranslateGerman(t *testing.T) {
	Init("de")
	got := T("account.balance", 1234.5)
	if !strings.Contains(got, "1234.50") {
		t.Fatalf("T(account.balance) = %q", got)
	}
	if got == "Balance: 1234.50" {
		t.Fatal("German localizer returned the English string")
	}
}

func TestUnknownIDFallsBack(t *testing.T) {
	Init("en")
	if got := T("no.such.key"); got != "no.such.key" {
		t.Fatalf("fallback = %q", got)
	}
}

func TestSetLangSwitches(t *testing.T) {
	Init("en")
	en := T("loan.none")
	SetLang("de")
	de := T("loan.none")
	if en == de {
		t.Fatalf("language switch had no effect: %q", en)
	}
}
