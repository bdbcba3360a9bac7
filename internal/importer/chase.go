package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// ChaseParser parses Chase checking account CSV exports.
type ChaseParser struct{}

const chaseDateFormat = "01/02/2006"

// Columns the parser needs, looked up by header name.
var chaseColumns = []string{"Posting Date", "Description", "Amount", "Type"}

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns its transactions in file order.
func (p *ChaseParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	// Chase exports carry a trailing empty column on data rows.
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := columnIndex(records[0], chaseColumns)
	if err != nil {
		return nil, err
	}

	var txns []model.BankTransaction
	occurrences := make(map[string]int)
	for i, rec := range records[1:] {
		txn, err := parseChaseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		key := txn.Date.Format("20060102") + "|" + txn.Description + "|" + txn.Amount.StringFixed(2)
		occurrences[key]++
		txn.Reference = reference("chase", txn.Date, txn.Description, txn.Amount, occurrences[key])
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseChaseRow(rec []string, cols map[string]int) (model.BankTransaction, error) {
	field := func(name string) string {
		if i := cols[name]; i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	date, err := time.Parse(chaseDateFormat, field("Posting Date"))
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", field("Posting Date"), err)
	}
	amount, err := decimal.NewFromString(field("Amount"))
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", field("Amount"), err)
	}

	return model.BankTransaction{
		Date:        date,
		Description: field("Description"),
		Amount:      amount,
		Type:        field("Type"),
	}, nil
}

// columnIndex maps each wanted header name to its position in header.
func columnIndex(header, want []string) (map[string]int, error) {
	cols := make(map[string]int, len(want))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	out := make(map[string]int, len(want))
	for _, name := range want {
		i, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		out[name] = i
	}
	return out, nil
}

// reference builds an ID like chase_20250103_GITHUBPROS_-4.00_1 from the
// bank, the posting date, the first ten alphanumerics of the description, the
// amount and seq, the row's occurrence number among rows in the same file
// sharing date, description and amount. Re-importing the same file yields the
// same references.
func reference(bank string, date time.Time, desc string, amount decimal.Decimal, seq int) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("%s_%s_%s_%s_%d", bank, date.Format("20060102"), prefix, amount.StringFixed(2), seq)
}
