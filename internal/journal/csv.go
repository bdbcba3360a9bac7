package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "entry_id,date,debit_account,credit_account,debit_amount,credit_amount,summary"

// DateFormat is the on-disk date layout.
const DateFormat = "2006-01-02"

const (
	numFields     = 7
	colEntryID    = 0
	colDate       = 1
	colDebitAcct  = 2
	colCreditAcct = 3
	colDebit      = 4
	colCredit     = 5
	colSummary    = 6
)

// ReadEntries reads all entries from a journal.csv reader.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.JournalEntry
	for i, rec := range records[1:] {
		entry, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendEntries appends entries to an existing journal.csv writer (no header).
func AppendEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts a JournalEntry to a CSV row.
func MarshalEntry(e model.JournalEntry) []string {
	row := make([]string, numFields)
	row[colEntryID] = e.ID
	row[colDate] = e.Date.Format(DateFormat)
	row[colDebitAcct] = e.DebitAccount
	row[colCreditAcct] = e.CreditAccount
	row[colDebit] = e.DebitAmount.StringFixed(2)
	row[colCredit] = e.CreditAmount.StringFixed(2)
	row[colSummary] = e.Summary
	return row
}

// UnmarshalEntry converts a CSV row to a JournalEntry. Empty amounts read as zero.
func UnmarshalEntry(record []string) (model.JournalEntry, error) {
	if len(record) != numFields {
		return model.JournalEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(DateFormat, record[colDate])
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	var debit, credit decimal.Decimal

	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return model.JournalEntry{}, fmt.Errorf("parsing debit_amount %q: %w", record[colDebit], err)
		}
	}

	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return model.JournalEntry{}, fmt.Errorf("parsing credit_amount %q: %w", record[colCredit], err)
		}
	}

	return model.JournalEntry{
		ID:            record[colEntryID],
		Date:          date,
		DebitAccount:  record[colDebitAcct],
		CreditAccount: record[colCreditAcct],
		DebitAmount:   debit,
		CreditAmount:  credit,
		Summary:       record[colSummary],
	}, nil
}
