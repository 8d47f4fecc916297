// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli sets up the command-line interface for Vaultteller using
// the Cobra library. It defines the root command, the customer and
// admin subcommands, flags, and the main entry point for execution.
package cli

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vaultteller/vaultteller/internal/bank"
	"github.com/vaultteller/vaultteller/internal/config"
	"github.com/vaultteller/vaultteller/internal/db"
	"github.com/vaultteller/vaultteller/internal/i18n"
	"github.com/vaultteller/vaultteller/internal/logging"
	"github.com/vaultteller/vaultteller/internal/otp"
)

var (
	cfgFile string
	version = "dev"
	cfg     config.Config
	eng     *bank.Engine
	gen     *otp.Generator

	// timeNow is swappable in tests.
	timeNow = time.Now

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// SetVersion records the build version shown by --version.
func SetVersion(v string) { version = v }

// Execute runs the root command. The engine is torn down after the
// command finishes so the final state is committed and the store closed.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if eng != nil {
		if cerr := eng.Close(); cerr != nil {
			logging.Errorf("shutdown: %v", cerr)
		}
	}
	return err
}

// NewRootCmd creates and configures a new root cobra command. Fresh
// instances are used for isolated tests.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultteller",
		Short: "Vaultteller is a console bank with a durable ledger and loan engine.",
		Long: `Vaultteller manages bank accounts, an append-only transaction
ledger, and amortized loans from the command line. Every mutating
command commits the full state to the configured storage backend
(compressed snapshot file, SQLite, PostgreSQL, or MySQL).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cmd, cfgFile)
			if err != nil {
				return fmt.Errorf("could not load configuration: %w", err)
			}
			i18n.Init(cfg.Language)

			store, err := db.New(cfg.Storage.Type, cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("could not open storage backend: %w", err)
			}
			snap, err := store.Load()
			if err != nil {
				_ = store.Close()
				return fmt.Errorf("could not load state: %w", err)
			}

			gen = otp.New(rand.NewSource(time.Now().UnixNano()), time.Now)
			eng = bank.New(snap, store, bank.Policy{
				SavingsRate:            cfg.Bank.SavingsRate,
				ATMFee:                 cfg.Bank.ATMFee,
				MaintenanceFee:         cfg.Bank.MaintenanceFee,
				LargeTransferThreshold: cfg.Bank.LargeTransferThreshold,
				DailyWithdrawalLimit:   cfg.Bank.DailyWithdrawalLimit,
				WithdrawOTPThreshold:   cfg.Bank.WithdrawOTPThreshold,
				TransferOTPThreshold:   cfg.Bank.TransferOTPThreshold,
			}, gen, nil)
			return nil
		},
	}

	cmd.Version = version

	cmd.AddCommand(accountCmd)
	cmd.AddCommand(loginCmd)
	cmd.AddCommand(depositCmd)
	cmd.AddCommand(withdrawCmd)
	cmd.AddCommand(transferCmd)
	cmd.AddCommand(pinCmd)
	cmd.AddCommand(loanCmd)
	cmd.AddCommand(statementCmd)
	cmd.AddCommand(scoreCmd)
	cmd.AddCommand(adminCmd)
	cmd.AddCommand(configCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is vaultteller.yaml in the user config dir, /etc/vaultteller, or cwd)")
	cmd.PersistentFlags().String("storage-type", "snapshot", "storage backend (snapshot, sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("storage-dsn", "./vaultteller.state.zst", "storage path or connection string (DSN)")
	cmd.PersistentFlags().String("lang", "en", `output language ("en", "de")`)

	return cmd
}

// readLine reads one trimmed line from stdin.
func readLine(prompt string) string {
	fmt.Print(prompt)
	r := bufio.NewReader(os.Stdin)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// readSecret reads a line without echo when stdin is a terminal,
// falling back to plain reads for piped input.
func readSecret(prompt string) string {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	r := bufio.NewReader(os.Stdin)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirmOTP runs the demo OTP round-trip: generate a code, show it,
// and require it back. Returns false when the entered code mismatches.
func confirmOTP() bool {
	code := gen.OTP()
	fmt.Println(i18n.T("otp.sent", code))
	entered := readLine(i18n.T("otp.prompt"))
	if entered != code {
		fmt.Println(errStyle.Render(i18n.T("otp.failed")))
		return false
	}
	return true
}

// warnPersistence surfaces a deferred persistence failure after an
// operation that already succeeded in memory.
func warnPersistence() {
	if err := eng.PersistenceWarning(); err != nil {
		fmt.Println(warnStyle.Render(i18n.T("persist.warn", err)))
	}
}
