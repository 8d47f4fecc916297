// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

package export

import (
	"strings"
	"testing"
	"time"

	"github.com/vaultteller/vaultteller/internal/model"
)

func sampleTxs() []model.Transaction {
	ts := time.Date(2025, 7, 15, 14, 30, 5, 0, time.UTC)
	return []model.Transaction{
		{
			TxID:        "aabbccdd-0000-0000-0000-000000000000",
			AccountNo:   "ACC1",
			Timestamp:   ts,
			Kind:        model.TxDeposit,
			Amount:      500,
			Description: `He said "hello"`,
			PostBalance: 1500,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, sampleTxs()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row", len(lines))
	}
	if lines[0] != "timestamp,txid,type,amount,postBalance,desc" {
		t.Fatalf("header = %q", lines[0])
	}
	want := `2025-07-15 14:30:05,aabbccdd-0000-0000-0000-000000000000,DEPOSIT,500.00,1500.00,"He said ""hello"""`
	if lines[1] != want {
		t.Fatalf("row = %q, want %q", lines[1], want)
	}
}

func TestWriteTXTUsesShortID(t *testing.T) {
	var sb strings.Builder
	if err := WriteTXT(&sb, sampleTxs()); err != nil {
		t.Fatalf("WriteTXT: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "aabbccdd |") {
		t.Fatalf("missing short id: %q", out)
	}
	if strings.Contains(out, "aabbccdd-0000") {
		t.Fatalf("full id leaked into text statement: %q", out)
	}
	if !strings.Contains(out, "2025-07-15 14:30:05") {
		t.Fatalf("missing timestamp: %q", out)
	}
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	if got := DefaultFilename("ACC1", now, FormatCSV); got != "statement_ACC1_202507.csv" {
		t.Fatalf("filename = %q", got)
	}
	if got := DefaultFilename("ACC1", now, FormatTXT); got != "statement_ACC1_202507.txt" {
		t.Fatalf("filename = %q", got)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var sb strings.Builder
	if err := Write(&sb, Format("pdf"), nil); err == nil {
		t.Fatal("unknown format must error")
	}
}
