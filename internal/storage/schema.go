// Package storage holds what the SQL sinks share: the table layout and the
// mapping between report kinds and table names.
package storage

import (
	"fmt"

	"github.com/cleared-dev/books/internal/report"
)

// LedgerTable is the table holding general ledger rows.
const LedgerTable = "general_ledger"

// LedgerColumns lists the general ledger columns in insert order.
var LedgerColumns = []string{"entry_id", "account_order", "date", "account", "counter_account", "summary", "debit", "credit", "balance", "position"}

// BalanceColumns lists the trial balance and statement columns in insert order.
var BalanceColumns = []string{"display_order", "account", "debit_balance", "credit_balance", "total_debit", "total_credit", "position"}

// Table returns the table name for kind. Kinds map one-to-one onto tables.
func Table(kind report.Kind) (string, error) {
	switch kind {
	case report.KindTrialBalance, report.KindBalanceSheet, report.KindIncomeStatement:
		return string(kind), nil
	default:
		return "", fmt.Errorf("unknown report kind %q", kind)
	}
}

// Tables lists every table a sink owns.
func Tables() []string {
	out := []string{LedgerTable}
	for _, k := range report.Kinds {
		out = append(out, string(k))
	}
	return out
}
