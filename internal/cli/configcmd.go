// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultteller/vaultteller/internal/config"
)

// configCmd groups configuration management commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the Vaultteller configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the resolved configuration to the standard location",
	Long: `Writes the currently resolved configuration (defaults plus any
overrides from flags, environment and an existing file) to the user or
system config location, making every setting discoverable for editing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		system, _ := cmd.Flags().GetBool("system")
		if err := config.WriteFile(&cfg, system); err != nil {
			return fmt.Errorf("could not write configuration: %w", err)
		}
		fmt.Println(okStyle.Render("Configuration written."))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("language: %s\n", cfg.Language)
		fmt.Printf("storage:  %s (%s)\n", cfg.Storage.Type, cfg.Storage.DSN)
		fmt.Printf("bank:     savings %.2f%%, ATM fee %.2f, maintenance %.2f\n",
			cfg.Bank.SavingsRate, cfg.Bank.ATMFee, cfg.Bank.MaintenanceFee)
		fmt.Printf("limits:   daily %.2f, large transfer %.2f, OTP %.2f/%.2f\n",
			cfg.Bank.DailyWithdrawalLimit, cfg.Bank.LargeTransferThreshold,
			cfg.Bank.WithdrawOTPThreshold, cfg.Bank.TransferOTPThreshold)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("system", false, "write to the system-wide location instead of the user one")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
