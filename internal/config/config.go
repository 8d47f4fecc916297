// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the application configuration via viper. Values are
// resolved in order: defaults, vaultteller.yaml (user config dir, /etc, or
// cwd), VAULTTELLER_* environment variables, then CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the fully resolved application configuration.
type Config struct {
	Language string  `mapstructure:"language" yaml:"language"`
	Storage  Storage `mapstructure:"storage" yaml:"storage"`
	Admin    Admin   `mapstructure:"admin" yaml:"admin"`
	Bank     Bank    `mapstructure:"bank" yaml:"bank"`
}

// Storage selects the persistence backend.
type Storage struct {
	// Type is one of: snapshot, sqlite, postgres, mysql.
	Type string `mapstructure:"type" yaml:"type"`
	// DSN is a file path for snapshot/sqlite, or a driver DSN otherwise.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// Admin carries the shared static admin secret. The secret is compared
// verbatim with no hashing and no lockout; this reproduces the source
// system's behavior and is a documented policy gap, not a feature.
type Admin struct {
	Secret string `mapstructure:"secret" yaml:"secret"`
}

// Bank holds the monetary policy knobs of the core.
type Bank struct {
	SavingsRate            float64 `mapstructure:"savings_rate" yaml:"savings_rate"`
	ATMFee                 float64 `mapstructure:"atm_fee" yaml:"atm_fee"`
	MaintenanceFee         float64 `mapstructure:"maintenance_fee" yaml:"maintenance_fee"`
	LargeTransferThreshold float64 `mapstructure:"large_transfer_threshold" yaml:"large_transfer_threshold"`
	DailyWithdrawalLimit   float64 `mapstructure:"daily_withdrawal_limit" yaml:"daily_withdrawal_limit"`
	WithdrawOTPThreshold   float64 `mapstructure:"withdraw_otp_threshold" yaml:"withdraw_otp_threshold"`
	TransferOTPThreshold   float64 `mapstructure:"transfer_otp_threshold" yaml:"transfer_otp_threshold"`
}

// Defaults mirror the reference deployment's constants.
func Defaults() map[string]any {
	return map[string]any{
		"language":                      "en",
		"storage.type":                  "snapshot",
		"storage.dsn":                   "./vaultteller.state.zst",
		"admin.secret":                  "admin123",
		"bank.savings_rate":             4.0,
		"bank.atm_fee":                  10.0,
		"bank.maintenance_fee":          50.0,
		"bank.large_transfer_threshold": 100000.0,
		"bank.daily_withdrawal_limit":   20000.0,
		"bank.withdraw_otp_threshold":   1000.0,
		"bank.transfer_otp_threshold":   50000.0,
	}
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Vaultteller")
		default:
			configDir = "/etc/vaultteller"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "vaultteller")
	}

	return filepath.Join(configDir, "vaultteller.yaml"), nil
}

// Load resolves the configuration for the given command. An explicit
// config file path (from the --config flag) takes precedence over the
// standard search locations.
func Load(cmd *cobra.Command, explicitFile string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("vaultteller")
	v.SetConfigType("yaml")

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("vaultteller")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		flags := cmd.Flags()
		// Persistent flag names differ from the config keys they set.
		aliases := map[string]string{
			"storage.type": "storage-type",
			"storage.dsn":  "storage-dsn",
			"language":     "lang",
		}
		for key, name := range aliases {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return c, err
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteFile persists the given configuration as YAML to the standard
// user or system location, creating the directory when needed.
func WriteFile(c *Config, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600 because the file carries the admin secret.
	return os.WriteFile(path, data, 0600)
}
