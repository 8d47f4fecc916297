// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package export renders account statements as CSV or plain text.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vaultteller/vaultteller/internal/model"
)

// Format selects the statement output format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatTXT Format = "txt"
)

const timestampLayout = "2006-01-02 15:04:05"

// DefaultFilename returns the conventional statement filename for an
// account: statement_<account>_<yyyyMM>.<ext>.
func DefaultFilename(accountNo string, now time.Time, format Format) string {
	return fmt.Sprintf("statement_%s_%s.%s", accountNo, now.Format("200601"), format)
}

// WriteCSV writes the transactions as CSV with a fixed header. The
// description column is always quoted with embedded quotes doubled, so
// free-text descriptions cannot break the row structure.
func WriteCSV(w io.Writer, txs []model.Transaction) error {
	if _, err := fmt.Fprintln(w, "timestamp,txid,type,amount,postBalance,desc"); err != nil {
		return err
	}
	for _, t := range txs {
		desc := strings.ReplaceAll(t.Description, `"`, `""`)
		_, err := fmt.Fprintf(w, "%s,%s,%s,%.2f,%.2f,\"%s\"\n",
			t.Timestamp.Format(timestampLayout), t.TxID, t.Kind, t.Amount, t.PostBalance, desc)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteTXT writes the transactions as aligned plain-text lines using
// the short transaction id.
func WriteTXT(w io.Writer, txs []model.Transaction) error {
	for _, t := range txs {
		_, err := fmt.Fprintf(w, "%s | %s | %-13s | %10.2f | %12.2f | %s\n",
			t.Timestamp.Format(timestampLayout), t.ShortID(), t.Kind, t.Amount, t.PostBalance, t.Description)
		if err != nil {
			return err
		}
	}
	return nil
}

// Write renders the transactions in the requested format.
func Write(w io.Writer, format Format, txs []model.Transaction) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, txs)
	case FormatTXT:
		return WriteTXT(w, txs)
	default:
		return fmt.Errorf("unsupported statement format: %q", format)
	}
}
