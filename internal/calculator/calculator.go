// Package calculator derives the general ledger, trial balance and financial
// statements from a journal and a chart of accounts.
//
// The builders are pure: they read their inputs, never modify them, and either
// return a complete result or an error with no partial output.
package calculator

import (
	"fmt"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/model"
)

// JournalSource supplies the journal entries of the period.
type JournalSource interface {
	Entries() ([]model.JournalEntry, error)
}

// AccountSource supplies the chart of accounts.
type AccountSource interface {
	Accounts() ([]model.Account, error)
}

// Report is everything one run derives.
type Report struct {
	Entries         int
	Accounts        int
	Ledger          []model.LedgerRow
	TrialBalance    []model.TrialBalanceRow
	BalanceSheet    []model.TrialBalanceRow
	IncomeStatement []model.TrialBalanceRow
}

// Totals sums the trial balance columns.
func (r *Report) Totals() model.TrialBalanceTotals {
	return Totals(r.TrialBalance)
}

// Calculator binds the builders to a journal and an account source.
type Calculator struct {
	journal  JournalSource
	accounts AccountSource
}

// New creates a Calculator.
func New(journal JournalSource, accounts AccountSource) *Calculator {
	return &Calculator{journal: journal, accounts: accounts}
}

// Run loads both sources once and derives every report.
func (c *Calculator) Run() (*Report, error) {
	entries, err := c.journal.Entries()
	if err != nil {
		return nil, fmt.Errorf("loading journal: %w", err)
	}

	accts, err := c.accounts.Accounts()
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}

	index, err := accounts.NewIndex(accts)
	if err != nil {
		return nil, fmt.Errorf("indexing accounts: %w", err)
	}

	return Derive(entries, index)
}

// Derive runs the ledger, trial balance and statement builders in sequence.
func Derive(entries []model.JournalEntry, index *accounts.Index) (*Report, error) {
	ledger, err := BuildLedger(entries, index)
	if err != nil {
		return nil, fmt.Errorf("building general ledger: %w", err)
	}

	tb, err := BuildTrialBalance(ledger, index)
	if err != nil {
		return nil, fmt.Errorf("building trial balance: %w", err)
	}

	bs, err := FilterByStatementType(tb, index, model.StatementBalanceSheet)
	if err != nil {
		return nil, fmt.Errorf("building balance sheet: %w", err)
	}

	is, err := FilterByStatementType(tb, index, model.StatementIncomeStatement)
	if err != nil {
		return nil, fmt.Errorf("building income statement: %w", err)
	}

	return &Report{
		Entries:         len(entries),
		Accounts:        index.Len(),
		Ledger:          ledger,
		TrialBalance:    tb,
		BalanceSheet:    bs,
		IncomeStatement: is,
	}, nil
}
