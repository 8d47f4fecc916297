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

// loanCmd groups loan origination and repayment commands.
var loanCmd = &cobra.Command{
	Use:   "loan",
	Short: "Apply for and repay loans",
}

var loanApplyCmd = &cobra.Command{
	Use:   "apply <account-no> <category> <principal> <annual-rate> <tenure-months>",
	Short: "Apply for a loan; the principal is credited immediately",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		rate, err := parseAmount(args[3])
		if err != nil {
			return err
		}
		tenure, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("invalid tenure %q: %w", args[4], model.ErrValidation)
		}
		if _, err := authenticate(args[0]); err != nil {
			return err
		}
		ln, emi, err := eng.ApplyLoan(args[0], args[1], principal, rate, tenure)
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("loan.disbursed", ln.Category, emi, ln.TenureMonth, ln.LoanID)))
		warnPersistence()
		return nil
	},
}

var loanListCmd = &cobra.Command{
	Use:   "list <account-no>",
	Short: "List the account's loans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loans := eng.Loans(args[0])
		if len(loans) == 0 {
			fmt.Println(i18n.T("loan.none"))
			return nil
		}
		for _, ln := range loans {
			state := "ACTIVE"
			if !ln.Active {
				state = "CLOSED"
			}
			fmt.Printf("%-38s %-10s %12.2f / %-12.2f %3d mo %6.2f%% %s\n",
				ln.LoanID, ln.Category, ln.Outstanding, ln.Principal, ln.TenureMonth, ln.AnnualRate, state)
		}
		return nil
	},
}

var loanEMICmd = &cobra.Command{
	Use:   "emi <account-no> <loan-id>",
	Short: "Pay one EMI installment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := authenticate(args[0]); err != nil {
			return err
		}
		pay, ln, err := eng.PayEMI(args[0], args[1])
		if err != nil {
			if errors.Is(err, model.ErrLoanClosed) {
				fmt.Println(i18n.T("loan.cleared"))
			}
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("loan.emi_paid", pay.PrincipalPart, pay.InterestPart, ln.Outstanding)))
		if pay.Closed {
			fmt.Println(okStyle.Render(i18n.T("loan.cleared")))
		}
		warnPersistence()
		return nil
	},
}

var loanPrepayCmd = &cobra.Command{
	Use:   "prepay <account-no> <loan-id> <amount>",
	Short: "Prepay against the outstanding principal",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		if _, err := authenticate(args[0]); err != nil {
			return err
		}
		pay, ln, err := eng.PrepayLoan(args[0], args[1], amount)
		if err != nil {
			if errors.Is(err, model.ErrLoanClosed) {
				fmt.Println(i18n.T("loan.cleared"))
			}
			return err
		}
		fmt.Println(okStyle.Render(i18n.T("loan.prepaid", ln.Outstanding)))
		if pay.Closed {
			fmt.Println(okStyle.Render(i18n.T("loan.cleared")))
		}
		warnPersistence()
		return nil
	},
}

func init() {
	loanCmd.AddCommand(loanApplyCmd)
	loanCmd.AddCommand(loanListCmd)
	loanCmd.AddCommand(loanEMICmd)
	loanCmd.AddCommand(loanPrepayCmd)
}
