package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/books/internal/model"
)

// Header is the CSV header for chart-of-accounts.csv.
var Header = []string{"account_name", "side", "statement_type", "display_order", "description"}

const (
	numFields    = 5
	colName      = 0
	colSide      = 1
	colStatement = 2
	colOrder     = 3
	colDesc      = 4
)

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colName] = acct.Name
	row[colSide] = string(acct.Side)
	row[colStatement] = string(acct.Statement)
	row[colOrder] = strconv.Itoa(acct.Order)
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if record[colName] == "" {
		return model.Account{}, fmt.Errorf("account_name is empty")
	}

	side := model.Side(record[colSide])
	if !side.Valid() {
		return model.Account{}, fmt.Errorf("invalid side %q for %s", record[colSide], record[colName])
	}

	statement := model.StatementType(record[colStatement])
	if !statement.Valid() {
		return model.Account{}, fmt.Errorf("invalid statement_type %q for %s", record[colStatement], record[colName])
	}

	order, err := strconv.Atoi(record[colOrder])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing display_order %q: %w", record[colOrder], err)
	}

	return model.Account{
		Name:        record[colName],
		Side:        side,
		Statement:   statement,
		Order:       order,
		Description: record[colDesc],
	}, nil
}
