package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one account-side view of a journal entry in the general ledger.
type LedgerRow struct {
	EntryID        string
	AccountOrder   int
	Date           time.Time
	Account        string
	CounterAccount string
	Summary        string
	Debit          decimal.Decimal // zero on the credit row
	Credit         decimal.Decimal // zero on the debit row
	Balance        decimal.Decimal // running balance of Account, signed by its natural side
}

// TrialBalanceRow aggregates all postings of one account.
type TrialBalanceRow struct {
	Order         int
	Account       string
	DebitBalance  decimal.Decimal
	CreditBalance decimal.Decimal
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
}

// TrialBalanceTotals sums the columns of a trial balance.
type TrialBalanceTotals struct {
	DebitBalance  decimal.Decimal
	CreditBalance decimal.Decimal
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
}

// Balanced reports whether both the gross and the net columns agree.
func (t TrialBalanceTotals) Balanced() bool {
	return t.TotalDebit.Equal(t.TotalCredit) && t.DebitBalance.Equal(t.CreditBalance)
}
