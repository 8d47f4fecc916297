// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	// Run from an empty directory so no stray vaultteller.yaml is found.
	t.Chdir(t.TempDir())

	c, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Language != "en" {
		t.Fatalf("language = %q, want en", c.Language)
	}
	if c.Storage.Type != "snapshot" || c.Storage.DSN != "./vaultteller.state.zst" {
		t.Fatalf("storage = %+v", c.Storage)
	}
	if c.Admin.Secret != "admin123" {
		t.Fatalf("admin secret = %q", c.Admin.Secret)
	}
	if c.Bank.SavingsRate != 4.0 || c.Bank.ATMFee != 10.0 || c.Bank.MaintenanceFee != 50.0 {
		t.Fatalf("bank policy = %+v", c.Bank)
	}
	if c.Bank.LargeTransferThreshold != 100000 || c.Bank.DailyWithdrawalLimit != 20000 {
		t.Fatalf("thresholds = %+v", c.Bank)
	}
	if c.Bank.WithdrawOTPThreshold != 1000 || c.Bank.TransferOTPThreshold != 50000 {
		t.Fatalf("OTP thresholds = %+v", c.Bank)
	}
}

func TestExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `language: de
storage:
  type: sqlite
  dsn: ./bank.db
bank:
  atm_fee: 25
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Language != "de" {
		t.Fatalf("language = %q, want de", c.Language)
	}
	if c.Storage.Type != "sqlite" || c.Storage.DSN != "./bank.db" {
		t.Fatalf("storage = %+v", c.Storage)
	}
	if c.Bank.ATMFee != 25 {
		t.Fatalf("atm fee = %.2f, want override 25", c.Bank.ATMFee)
	}
	// Untouched keys keep their defaults.
	if c.Bank.SavingsRate != 4.0 {
		t.Fatalf("savings rate = %.2f, want default 4.0", c.Bank.SavingsRate)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VAULTTELLER_STORAGE_TYPE", "mysql")

	c, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Storage.Type != "mysql" {
		t.Fatalf("storage type = %q, want env override mysql", c.Storage.Type)
	}
}
