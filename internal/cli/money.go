// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vaultteller/vaultteller/internal/i18n"
	"github.com/vaultteller/vaultteller/internal/model"
)

// parseAmount converts a positional amount argument.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, model.ErrValidation)
	}
	return v, nil
}

var depositCmd = &cobra.Command{
	Use:   "deposit <account-no> <amount>",
	Short: "Deposit cash into an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		if _, err := authenticate(args[0]); err != nil {
			return err
		}
		tx, err := eng.Deposit(args[0], amount)
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("tx.deposited", tx.Amount, tx.PostBalance)))
		warnPersistence()
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <account-no> <amount>",
	Short: "Withdraw cash (ATM fee applies)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		if _, err := authenticate(args[0]); err != nil {
			return err
		}
		if eng.NeedsWithdrawOTP(amount) && !confirmOTP() {
			return errors.New("withdrawal aborted")
		}
		res, err := eng.Withdraw(args[0], amount)
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("tx.withdrawn", res.Withdrawal.Amount, res.Fee.Amount, res.Fee.PostBalance)))
		if res.Flagged {
			fmt.Println(warnStyle.Render(i18n.T("fraud.flag_withdraw")))
		}
		warnPersistence()
		return nil
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <from-account> <to-account> <amount>",
	Short: "Transfer between two accounts",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		if _, err := authenticate(args[0]); err != nil {
			return err
		}
		// The preflight validates both sides and applies the large-
		// transfer flag before the OTP gate, so a declined OTP still
		// leaves the flag in place.
		needsOTP, flagged, err := eng.PreflightTransfer(args[0], args[1], amount)
		if err != nil {
			return err
		}
		if flagged {
			fmt.Println(warnStyle.Render(i18n.T("fraud.flag_transfer")))
		}
		if needsOTP && !confirmOTP() {
			warnPersistence()
			return errors.New("transfer aborted")
		}
		res, err := eng.Transfer(args[0], args[1], amount)
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("tx.transferred", res.Debit.Amount, args[1], res.Debit.PostBalance)))
		warnPersistence()
		return nil
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <account-no>",
	Short: "Change the account PIN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current := readSecret(i18n.T("auth.pin_prompt"))
		next := readSecret(i18n.T("auth.pin_new_prompt"))
		confirm := readSecret(i18n.T("auth.pin_confirm_prompt"))
		if next != confirm {
			fmt.Println(errStyle.Render(i18n.T("auth.pins_differ")))
			return errors.New("pin confirmation failed")
		}
		if err := eng.ChangePIN(args[0], current, next); err != nil {
			if errors.Is(err, model.ErrAuth) {
				fmt.Println(errStyle.Render(i18n.T("auth.pin_mismatch")))
			}
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("auth.pin_changed")))
		warnPersistence()
		return nil
	},
}
