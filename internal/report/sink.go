// Package report publishes calculator output to sinks and renders it for people.
package report

import (
	"context"
	"fmt"

	"github.com/cleared-dev/books/internal/calculator"
	"github.com/cleared-dev/books/internal/model"
)

// Kind names a trial-balance-shaped output.
type Kind string

const (
	KindTrialBalance    Kind = "trial_balance"
	KindBalanceSheet    Kind = "balance_sheet"
	KindIncomeStatement Kind = "income_statement"
)

// Kinds lists every balance output in publishing order.
var Kinds = []Kind{KindTrialBalance, KindBalanceSheet, KindIncomeStatement}

// LedgerSink stores general ledger rows.
type LedgerSink interface {
	InsertLedgerRows(ctx context.Context, rows []model.LedgerRow) error
}

// BalanceSink stores trial balance and statement rows.
type BalanceSink interface {
	InsertBalanceRows(ctx context.Context, kind Kind, rows []model.TrialBalanceRow) error
}

// Sink stores everything a run produces.
type Sink interface {
	LedgerSink
	BalanceSink
}

// ReplaceSink replaces every output of a run at once, so a failure leaves the
// previous run's output in place.
type ReplaceSink interface {
	ReplaceAll(ctx context.Context, r *calculator.Report) error
}

// Rows returns the rows of r for kind.
func Rows(r *calculator.Report, kind Kind) []model.TrialBalanceRow {
	switch kind {
	case KindBalanceSheet:
		return r.BalanceSheet
	case KindIncomeStatement:
		return r.IncomeStatement
	default:
		return r.TrialBalance
	}
}

// Publish writes the ledger, then the trial balance and both statements.
func Publish(ctx context.Context, r *calculator.Report, ledger LedgerSink, balances BalanceSink) error {
	if err := ledger.InsertLedgerRows(ctx, r.Ledger); err != nil {
		return fmt.Errorf("publishing general ledger: %w", err)
	}
	for _, kind := range Kinds {
		if err := balances.InsertBalanceRows(ctx, kind, Rows(r, kind)); err != nil {
			return fmt.Errorf("publishing %s: %w", kind, err)
		}
	}
	return nil
}

// PublishTo writes r to s, in one step when s is a ReplaceSink and table by
// table through Publish otherwise.
func PublishTo(ctx context.Context, r *calculator.Report, s Sink) error {
	if rs, ok := s.(ReplaceSink); ok {
		return rs.ReplaceAll(ctx, r)
	}
	return Publish(ctx, r, s, s)
}
