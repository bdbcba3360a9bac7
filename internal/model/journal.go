package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a single row in journal.csv: one economic event posted to
// exactly two accounts.
type JournalEntry struct {
	ID            string    // "YYYY-MM-NNN"
	Date          time.Time //nolint:revive // plain field name is clearest
	DebitAccount  string
	CreditAccount string
	DebitAmount   decimal.Decimal
	CreditAmount  decimal.Decimal
	Summary       string
}

// Amount returns the amount posted on side s.
func (e JournalEntry) Amount(s Side) decimal.Decimal {
	if s == SideDebit {
		return e.DebitAmount
	}
	return e.CreditAmount
}

// Account returns the account posted on side s.
func (e JournalEntry) Account(s Side) string {
	if s == SideDebit {
		return e.DebitAccount
	}
	return e.CreditAccount
}
