// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vaultteller/vaultteller/internal/export"
	"github.com/vaultteller/vaultteller/internal/i18n"
	"github.com/vaultteller/vaultteller/internal/model"
)

// adminCmd groups the administrative commands behind the shared secret.
// The secret check reproduces the source system: a static string compared
// on every invocation, with no lockout. This is a documented policy gap.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations (secret required)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Run the root setup first; cobra only invokes the nearest
		// PersistentPreRunE in the chain.
		if root := cmd.Root(); root != nil && root.PersistentPreRunE != nil {
			if err := root.PersistentPreRunE(cmd, args); err != nil {
				return err
			}
		}
		secret := readSecret(i18n.T("admin.secret_prompt"))
		if subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.Admin.Secret)) != 1 {
			fmt.Println(errStyle.Render(i18n.T("admin.wrong_password")))
			return errors.New("admin authentication failed")
		}
		return nil
	},
}

var adminFreezeCmd = &cobra.Command{
	Use:   "freeze <account-no>",
	Short: "Freeze an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.SetStatus(args[0], model.StatusFrozen); err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("admin.frozen")))
		warnPersistence()
		return nil
	},
}

var adminUnfreezeCmd = &cobra.Command{
	Use:   "unfreeze <account-no>",
	Short: "Reactivate a frozen or locked account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.SetStatus(args[0], model.StatusActive); err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("admin.unfrozen")))
		warnPersistence()
		return nil
	},
}

var adminCloseCmd = &cobra.Command{
	Use:   "close <account-no>",
	Short: "Close an account permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.SetStatus(args[0], model.StatusClosed); err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("admin.closed")))
		warnPersistence()
		return nil
	},
}

var adminSetRateCmd = &cobra.Command{
	Use:   "set-rate <annual-rate>",
	Short: "Set the savings interest rate for all savings accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		if _, err := eng.SetGlobalSavingsRate(rate); err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("admin.rate_updated", rate)))
		warnPersistence()
		return nil
	},
}

var adminApplyInterestCmd = &cobra.Command{
	Use:   "apply-interest",
	Short: "Credit one month of interest to active savings accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := eng.ApplyMonthlyInterest(); err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("admin.interest_applied")))
		warnPersistence()
		return nil
	},
}

var adminApplyFeeCmd = &cobra.Command{
	Use:   "apply-fee",
	Short: "Debit the monthly maintenance fee from active current accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := eng.ApplyMonthlyFee(); err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("admin.fee_applied")))
		warnPersistence()
		return nil
	},
}

var adminStatementsCmd = &cobra.Command{
	Use:   "statements",
	Short: "Export monthly statements for all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		formatFlag, _ := cmd.Flags().GetString("format")
		format := export.Format(formatFlag)

		if dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("could not create statement directory: %w", err)
			}
		}
		for _, a := range eng.ListAccounts() {
			name := filepath.Join(dir, export.DefaultFilename(a.AccountNo, timeNow(), format))
			f, err := os.Create(name)
			if err != nil {
				return fmt.Errorf("could not create statement file: %w", err)
			}
			if err := export.Write(f, format, eng.Transactions(a.AccountNo)); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
		fmt.Println(okStyle.Render(i18n.T("admin.statements_generated")))
		return nil
	},
}

var adminFraudScanCmd = &cobra.Command{
	Use:   "fraud-scan",
	Short: "Scan the ledger for accounts with unusual transfer volume",
	RunE: func(cmd *cobra.Command, args []string) error {
		flagged := eng.FraudScan()
		for _, acc := range flagged {
			fmt.Println(warnStyle.Render(acc))
		}
		fmt.Println(i18n.T("fraud.scan_done", len(flagged)))
		warnPersistence()
		return nil
	},
}

var adminTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List the full ledger across accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		txs := eng.AllTransactions()
		if len(txs) == 0 {
			fmt.Println(i18n.T("tx.none"))
			return nil
		}
		for _, t := range txs {
			fmt.Printf("%-24s ", t.AccountNo)
			if err := export.WriteTXT(cmd.OutOrStdout(), []model.Transaction{t}); err != nil {
				return err
			}
		}
		return nil
	},
}

var adminLoansCmd = &cobra.Command{
	Use:   "loans",
	Short: "List all loans across accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		all := eng.AllLoans()
		if len(all) == 0 {
			fmt.Println(i18n.T("loan.none"))
			return nil
		}
		for acc, loans := range all {
			for _, ln := range loans {
				state := "ACTIVE"
				if !ln.Active {
					state = "CLOSED"
				}
				fmt.Printf("%-24s %-38s %-10s %12.2f %s\n", acc, ln.LoanID, ln.Category, ln.Outstanding, state)
			}
		}
		return nil
	},
}

func init() {
	adminStatementsCmd.Flags().String("dir", "", "directory for the generated statements (default cwd)")
	adminStatementsCmd.Flags().String("format", "csv", "statement format (csv, txt)")

	adminCmd.AddCommand(adminFreezeCmd)
	adminCmd.AddCommand(adminUnfreezeCmd)
	adminCmd.AddCommand(adminCloseCmd)
	adminCmd.AddCommand(adminSetRateCmd)
	adminCmd.AddCommand(adminApplyInterestCmd)
	adminCmd.AddCommand(adminApplyFeeCmd)
	adminCmd.AddCommand(adminStatementsCmd)
	adminCmd.AddCommand(adminFraudScanCmd)
	adminCmd.AddCommand(adminTransactionsCmd)
	adminCmd.AddCommand(adminLoansCmd)
}
