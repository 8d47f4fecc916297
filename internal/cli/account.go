// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultteller/vaultteller/internal/i18n"
	"github.com/vaultteller/vaultteller/internal/model"
)

// accountCmd groups account lifecycle and lookup commands.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Open and inspect bank accounts",
}

var accountOpenCmd = &cobra.Command{
	Use:   "open <holder-name>",
	Short: "Open a new savings or current account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		deposit, _ := cmd.Flags().GetFloat64("deposit")

		kind := model.AccountKind(strings.ToUpper(kindFlag))
		if kind != model.KindSavings && kind != model.KindCurrent {
			return fmt.Errorf("unknown account kind: %q", kindFlag)
		}

		pin := readSecret(i18n.T("auth.pin_new_prompt"))
		confirm := readSecret(i18n.T("auth.pin_confirm_prompt"))
		if pin != confirm {
			fmt.Println(errStyle.Render(i18n.T("auth.pins_differ")))
			return errors.New("pin confirmation failed")
		}

		acc, err := eng.OpenAccount(args[0], kind, pin, deposit)
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("account.created", acc.AccountNo)))
		fmt.Println(i18n.T("account.card_info", acc.Card.Number, acc.Card.CVV, acc.Card.Expiry))
		warnPersistence()
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts := eng.ListAccounts()
		if len(accounts) == 0 {
			fmt.Println(i18n.T("account.none"))
			return nil
		}
		for _, a := range accounts {
			line := fmt.Sprintf("%-24s %-20s %-8s %-7s %12.2f", a.AccountNo, a.HolderName, a.Kind, a.Status, a.Balance)
			if a.FraudFlagged {
				line += "  [" + a.FraudReason + "]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var accountBalanceCmd = &cobra.Command{
	Use:   "balance <account-no>",
	Short: "Show the current balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := authenticate(args[0])
		if err != nil {
			return err
		}
		fmt.Println(i18n.T("account.balance", acc.Balance))
		return nil
	},
}

var accountCardCmd = &cobra.Command{
	Use:   "card <account-no>",
	Short: "Show the card issued at account opening",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := authenticate(args[0])
		if err != nil {
			return err
		}
		fmt.Println(i18n.T("account.card_info", acc.Card.Number, acc.Card.CVV, acc.Card.Expiry))
		return nil
	},
}

// loginCmd verifies a PIN and greets the holder. It exists mostly as a
// quick check that credentials still work.
var loginCmd = &cobra.Command{
	Use:   "login <account-no>",
	Short: "Verify account credentials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := authenticate(args[0])
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("auth.welcome", acc.HolderName, acc.AccountNo)))
		return nil
	},
}

// authenticate prompts for the PIN and runs the engine's credential
// check, translating the error taxonomy into user-facing messages. A
// frozen account may still log in; mutating commands are refused later.
func authenticate(accountNo string) (model.Account, error) {
	pin := readSecret(i18n.T("auth.pin_prompt"))
	acc, err := eng.Authenticate(accountNo, pin)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			fmt.Println(errStyle.Render(i18n.T("account.not_found")))
		case errors.Is(err, model.ErrLockedAccount):
			fmt.Println(errStyle.Render(i18n.T("account.locked")))
		case errors.Is(err, model.ErrClosedAccount):
			fmt.Println(errStyle.Render(i18n.T("account.closed")))
		case errors.Is(err, model.ErrAuth):
			attempts := 0
			if cur, aerr := eng.Account(accountNo); aerr == nil {
				attempts = cur.FailedPinAttempts
			}
			fmt.Println(errStyle.Render(i18n.T("auth.pin_invalid", attempts)))
		}
		warnPersistence()
		return acc, err
	}
	if acc.Status == model.StatusFrozen {
		fmt.Println(warnStyle.Render(i18n.T("account.frozen_warn")))
	}
	warnPersistence()
	return acc, nil
}

func init() {
	accountOpenCmd.Flags().String("kind", "savings", "account kind (savings, current)")
	accountOpenCmd.Flags().Float64("deposit", 0, "initial deposit amount")

	accountCmd.AddCommand(accountOpenCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountBalanceCmd)
	accountCmd.AddCommand(accountCardCmd)
}
