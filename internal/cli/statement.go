// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultteller/vaultteller/internal/export"
	"github.com/vaultteller/vaultteller/internal/i18n"
	"github.com/vaultteller/vaultteller/internal/ledger"
)

// statementCmd groups transaction history commands.
var statementCmd = &cobra.Command{
	Use:   "statement",
	Short: "View and export transaction history",
}

var statementMiniCmd = &cobra.Command{
	Use:   "mini <account-no>",
	Short: "Show the last five transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txs := eng.MiniStatement(args[0])
		if len(txs) == 0 {
			fmt.Println(i18n.T("tx.none"))
			return nil
		}
		return export.WriteTXT(os.Stdout, txs)
	},
}

var statementPageCmd = &cobra.Command{
	Use:   "page <account-no> <page>",
	Short: "Show one page of transaction history",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var page int
		if _, err := fmt.Sscanf(args[1], "%d", &page); err != nil || page < 1 {
			return fmt.Errorf("invalid page number %q", args[1])
		}
		// Pages are one-based for the user, zero-based internally.
		txs, total, ok := eng.TransactionPage(args[0], page-1, ledger.DefaultPageSize)
		if !ok {
			fmt.Println(i18n.T("tx.no_more_pages"))
			return nil
		}
		if total == 0 {
			fmt.Println(i18n.T("tx.none"))
			return nil
		}
		first := (page-1)*ledger.DefaultPageSize + 1
		fmt.Println(i18n.T("tx.page_header", first, first+len(txs)-1, total))
		return export.WriteTXT(os.Stdout, txs)
	},
}

var statementExportCmd = &cobra.Command{
	Use:   "export <account-no>",
	Short: "Export the full history to a CSV or TXT file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		format := export.Format(formatFlag)
		if _, err := eng.Account(args[0]); err != nil {
			return err
		}
		if out == "" {
			out = export.DefaultFilename(args[0], timeNow(), format)
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("could not create statement file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := export.Write(f, format, eng.Transactions(args[0])); err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("export.ok", out)))
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <account-no>",
	Short: "Show the account's credit score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := eng.CreditScore(args[0])
		if err != nil {
			return err
		}
		fmt.Println(i18n.T("score.result", args[0], s))
		return nil
	},
}

func init() {
	statementExportCmd.Flags().String("format", "csv", "statement format (csv, txt)")
	statementExportCmd.Flags().String("out", "", "output file (default statement_<account>_<yyyyMM>.<format>)")

	statementCmd.AddCommand(statementMiniCmd)
	statementCmd.AddCommand(statementPageCmd)
	statementCmd.AddCommand(statementExportCmd)
}
