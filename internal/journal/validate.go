package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// AccountChecker tests whether an account name exists in the chart of accounts.
type AccountChecker interface {
	Exists(name string) bool
}

var hundred = decimal.NewFromInt(100)

// ValidateEntries enforces 6 invariants on the journal entries of one month:
//
//  1. amounts are not negative
//  2. at least one amount is non-zero
//  3. debit and credit accounts exist
//  4. dates fall within the month
//  5. IDs are unique and their sequence numbers run 1..N
//  6. amounts have at most 2 decimal places
func ValidateEntries(entries []model.JournalEntry, accounts AccountChecker, year, month int) []ValidationError {
	var errs []ValidationError
	add := func(inv int, entryID, format string, args ...any) {
		errs = append(errs, ValidationError{Invariant: inv, EntryID: entryID, Description: fmt.Sprintf(format, args...)})
	}

	seqSeen := make(map[int]bool)
	for _, e := range entries {
		for _, side := range []model.Side{model.SideDebit, model.SideCredit} {
			amt := e.Amount(side)
			if amt.IsNegative() {
				add(1, e.ID, "%s amount %s is negative", side, amt.StringFixed(2))
			}
			if !amt.Mul(hundred).Equal(amt.Mul(hundred).Floor()) {
				add(6, e.ID, "%s amount %s has more than 2 decimal places", side, amt)
			}
			if !accounts.Exists(e.Account(side)) {
				add(3, e.ID, "unknown %s account %q", side, e.Account(side))
			}
		}

		if e.DebitAmount.IsZero() && e.CreditAmount.IsZero() {
			add(2, e.ID, "entry has neither a debit nor a credit amount")
		}

		if e.Date.Year() != year || int(e.Date.Month()) != month {
			add(4, e.ID, "date %s not in %04d-%02d", e.Date.Format(DateFormat), year, month)
		}

		_, _, seq, err := id.ParseEntryID(e.ID)
		if err != nil {
			add(5, e.ID, "invalid entry ID: %v", err)
			continue
		}
		if seqSeen[seq] {
			add(5, e.ID, "duplicate sequence %d", seq)
		}
		seqSeen[seq] = true
	}

	for i := 1; i <= len(seqSeen); i++ {
		if !seqSeen[i] {
			add(5, fmt.Sprintf("seq %d", i), "missing sequence %d in 1..%d", i, len(seqSeen))
		}
	}

	return errs
}
