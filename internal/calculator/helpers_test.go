package calculator

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func acct(name string, side model.Side, order int, st model.StatementType) model.Account {
	return model.Account{Name: name, Side: side, Order: order, Statement: st}
}

// cashSalesChart is the two-account master used by the worked scenario.
func cashSalesChart() []model.Account {
	return []model.Account{
		acct("Cash", model.SideDebit, 1, model.StatementBalanceSheet),
		acct("Sales", model.SideCredit, 2, model.StatementIncomeStatement),
	}
}

func smallChart() []model.Account {
	return []model.Account{
		acct("Cash", model.SideDebit, 1, model.StatementBalanceSheet),
		acct("Receivable", model.SideDebit, 2, model.StatementBalanceSheet),
		acct("Payable", model.SideCredit, 3, model.StatementBalanceSheet),
		acct("Capital", model.SideCredit, 4, model.StatementBalanceSheet),
		acct("Sales", model.SideCredit, 5, model.StatementIncomeStatement),
		acct("Rent", model.SideDebit, 6, model.StatementIncomeStatement),
		acct("Idle", model.SideDebit, 7, model.StatementIncomeStatement),
	}
}

func mustIndex(t *testing.T, accts []model.Account) *accounts.Index {
	t.Helper()
	ix, err := accounts.NewIndex(accts)
	require.NoError(t, err)
	return ix
}

func je(id string, d time.Time, debit, credit, amount string) model.JournalEntry {
	return model.JournalEntry{
		ID:            id,
		Date:          d,
		DebitAccount:  debit,
		CreditAccount: credit,
		DebitAmount:   dec(amount),
		CreditAmount:  dec(amount),
		Summary:       "entry " + id,
	}
}

// randomEntries draws n entries over accts with dates in January 2025.
// Many entries share a date so tie-breaking is exercised.
func randomEntries(r *rand.Rand, accts []model.Account, n int) []model.JournalEntry {
	entries := make([]model.JournalEntry, n)
	for i := range entries {
		debit := accts[r.Intn(len(accts))].Name
		credit := accts[r.Intn(len(accts))].Name
		amount := decimal.New(int64(r.Intn(100000)), -2)
		entries[i] = model.JournalEntry{
			ID:            fmt.Sprintf("2025-01-%03d", i+1),
			Date:          date(2025, 1, 1+r.Intn(5)),
			DebitAccount:  debit,
			CreditAccount: credit,
			DebitAmount:   amount,
			CreditAmount:  amount,
		}
	}
	return entries
}

type fakeJournal struct {
	entries []model.JournalEntry
	err     error
}

func (f fakeJournal) Entries() ([]model.JournalEntry, error) { return f.entries, f.err }

type fakeAccounts struct {
	accounts []model.Account
	err      error
}

func (f fakeAccounts) Accounts() ([]model.Account, error) { return f.accounts, f.err }
