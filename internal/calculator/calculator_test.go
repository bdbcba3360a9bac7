package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/model"
)

func TestRun_CashSale(t *testing.T) {
	calc := New(
		fakeJournal{entries: []model.JournalEntry{je("2025-01-001", date(2025, 1, 1), "Cash", "Sales", "1000")}},
		fakeAccounts{accounts: cashSalesChart()},
	)
	r, err := calc.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, r.Entries)
	assert.Equal(t, 2, r.Accounts)
	assert.Len(t, r.Ledger, 2)
	assert.Len(t, r.TrialBalance, 2)
	require.Len(t, r.BalanceSheet, 1)
	require.Len(t, r.IncomeStatement, 1)
	assert.Equal(t, "Cash", r.BalanceSheet[0].Account)
	assert.Equal(t, "Sales", r.IncomeStatement[0].Account)
	assert.True(t, r.Totals().Balanced())
}

func TestRun_UnknownAccountProducesNoReport(t *testing.T) {
	calc := New(
		fakeJournal{entries: []model.JournalEntry{je("2025-01-001", date(2025, 1, 1), "Cash", "Rent", "10")}},
		fakeAccounts{accounts: cashSalesChart()},
	)
	r, err := calc.Run()
	assert.Nil(t, r)

	var uerr *UnknownAccountError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, RoleCredit, uerr.Role)
	assert.Contains(t, err.Error(), "building general ledger")
}

func TestRun_DuplicateAccount(t *testing.T) {
	chart := append(cashSalesChart(), acct("Cash", model.SideCredit, 3, model.StatementBalanceSheet))
	_, err := New(fakeJournal{}, fakeAccounts{accounts: chart}).Run()

	var dup *accounts.DuplicateAccountError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Cash", dup.Name)
}

func TestRun_SourceErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := New(fakeJournal{err: boom}, fakeAccounts{accounts: cashSalesChart()}).Run()
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "loading journal")

	_, err = New(fakeJournal{}, fakeAccounts{err: boom}).Run()
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "loading accounts")
}

func TestRun_EmptyJournal(t *testing.T) {
	r, err := New(fakeJournal{}, fakeAccounts{accounts: smallChart()}).Run()
	require.NoError(t, err)
	assert.Empty(t, r.Ledger)
	assert.Len(t, r.TrialBalance, len(smallChart()))
	assert.Len(t, r.BalanceSheet, 4)
	assert.Len(t, r.IncomeStatement, 3)
}

func TestDerive_WithIndexSource(t *testing.T) {
	ix := mustIndex(t, smallChart())
	r, err := New(fakeJournal{entries: []model.JournalEntry{
		je("1", date(2025, 1, 1), "Cash", "Capital", "500"),
	}}, ix).Run()
	require.NoError(t, err)
	assert.Len(t, r.Ledger, 2)
}
