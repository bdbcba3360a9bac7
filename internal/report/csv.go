package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cleared-dev/books/internal/model"
)

// LedgerHeader is the CSV header for general-ledger.csv.
var LedgerHeader = []string{"entry_id", "account_order", "date", "account", "counter_account", "summary", "debit", "credit", "balance"}

// BalanceHeader is the CSV header for trial-balance.csv and the statements.
var BalanceHeader = []string{"order", "account", "debit_balance", "credit_balance", "total_debit", "total_credit"}

const (
	dateFormat = "2006-01-02"

	// LedgerFile is the general ledger file name inside the reports dir.
	LedgerFile = "general-ledger.csv"
)

// FileName returns the CSV file name for kind, e.g. "balance-sheet.csv".
func FileName(kind Kind) string {
	return strings.ReplaceAll(string(kind), "_", "-") + ".csv"
}

// MarshalLedgerRow converts a LedgerRow to a CSV row.
func MarshalLedgerRow(r model.LedgerRow) []string {
	return []string{
		r.EntryID,
		strconv.Itoa(r.AccountOrder),
		r.Date.Format(dateFormat),
		r.Account,
		r.CounterAccount,
		r.Summary,
		r.Debit.StringFixed(2),
		r.Credit.StringFixed(2),
		r.Balance.StringFixed(2),
	}
}

// MarshalBalanceRow converts a TrialBalanceRow to a CSV row.
func MarshalBalanceRow(r model.TrialBalanceRow) []string {
	return []string{
		strconv.Itoa(r.Order),
		r.Account,
		r.DebitBalance.StringFixed(2),
		r.CreditBalance.StringFixed(2),
		r.TotalDebit.StringFixed(2),
		r.TotalCredit.StringFixed(2),
	}
}

// DirSink writes each output to its own CSV file in a directory, replacing
// the previous run's file.
type DirSink struct {
	dir string
}

// NewDirSink creates a DirSink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Dir returns the output directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// InsertLedgerRows writes general-ledger.csv.
func (s *DirSink) InsertLedgerRows(_ context.Context, rows []model.LedgerRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, LedgerHeader)
	for _, r := range rows {
		records = append(records, MarshalLedgerRow(r))
	}
	return s.replace(LedgerFile, records)
}

// InsertBalanceRows writes the CSV file for kind.
func (s *DirSink) InsertBalanceRows(_ context.Context, kind Kind, rows []model.TrialBalanceRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, BalanceHeader)
	for _, r := range rows {
		records = append(records, MarshalBalanceRow(r))
	}
	return s.replace(FileName(kind), records)
}

// replace writes records to a temp file and renames it over name.
func (s *DirSink) replace(name string, records [][]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating reports dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
