package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/calculator"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/report"
)

func sampleReport(t *testing.T) *calculator.Report {
	t.Helper()
	ix, err := accounts.NewIndex(accounts.DefaultChart("sole_proprietor"))
	require.NoError(t, err)

	entries := []model.JournalEntry{
		{ID: "2025-01-001", Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), DebitAccount: "Business Checking", CreditAccount: "Owner's Capital",
			DebitAmount: decimal.RequireFromString("5000"), CreditAmount: decimal.RequireFromString("5000"), Summary: "Initial capital"},
		{ID: "2025-01-002", Date: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), DebitAccount: "Software & SaaS", CreditAccount: "Business Checking",
			DebitAmount: decimal.RequireFromString("4.25"), CreditAmount: decimal.RequireFromString("4.25"), Summary: "GitHub"},
	}
	r, err := calculator.Derive(entries, ix)
	require.NoError(t, err)
	return r
}

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	r := sampleReport(t)

	require.NoError(t, report.Publish(ctx, r, s, s))

	ledger, err := s.LedgerRows(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, len(r.Ledger))
	for i := range ledger {
		assert.Equal(t, r.Ledger[i].EntryID, ledger[i].EntryID)
		assert.Equal(t, r.Ledger[i].Account, ledger[i].Account)
		assert.True(t, r.Ledger[i].Date.Equal(ledger[i].Date))
		assert.True(t, r.Ledger[i].Balance.Equal(ledger[i].Balance), "row %d balance", i)
	}

	for _, kind := range report.Kinds {
		got, err := s.BalanceRows(ctx, kind)
		require.NoError(t, err)
		want := report.Rows(r, kind)
		require.Len(t, got, len(want), kind)
		for i := range got {
			assert.Equal(t, want[i].Account, got[i].Account)
			assert.Equal(t, want[i].Order, got[i].Order)
			assert.True(t, want[i].DebitBalance.Equal(got[i].DebitBalance))
			assert.True(t, want[i].TotalCredit.Equal(got[i].TotalCredit))
		}
	}
}

func TestStore_ReplacesPreviousRun(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	r := sampleReport(t)

	require.NoError(t, s.InsertLedgerRows(ctx, r.Ledger))
	require.NoError(t, s.InsertLedgerRows(ctx, r.Ledger[:1]))

	got, err := s.LedgerRows(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	r := sampleReport(t)

	require.NoError(t, report.PublishTo(ctx, r, s))

	ledger, err := s.LedgerRows(ctx)
	require.NoError(t, err)
	assert.Len(t, ledger, len(r.Ledger))
	for _, kind := range report.Kinds {
		got, err := s.BalanceRows(ctx, kind)
		require.NoError(t, err)
		assert.Len(t, got, len(report.Rows(r, kind)), kind)
	}
}

func TestStore_ReplaceAllRollsBackEveryTable(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	r := sampleReport(t)
	require.NoError(t, s.ReplaceAll(ctx, r))

	_, err := s.db.ExecContext(ctx, `DROP TABLE `+string(report.KindIncomeStatement))
	require.NoError(t, err)

	next := *r
	next.Ledger = r.Ledger[:2]
	next.TrialBalance = r.TrialBalance[:1]
	err = s.ReplaceAll(ctx, &next)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publishing income_statement")

	ledger, err := s.LedgerRows(ctx)
	require.NoError(t, err)
	assert.Len(t, ledger, len(r.Ledger))
	tb, err := s.BalanceRows(ctx, report.KindTrialBalance)
	require.NoError(t, err)
	assert.Len(t, tb, len(r.TrialBalance))
}

func TestStore_PreservesPrecision(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	rows := []model.TrialBalanceRow{{Order: 1, Account: "A", DebitBalance: decimal.RequireFromString("0.1"),
		CreditBalance: decimal.Zero, TotalDebit: decimal.RequireFromString("12345678901234.57"), TotalCredit: decimal.Zero}}

	require.NoError(t, s.InsertBalanceRows(ctx, report.KindTrialBalance, rows))
	got, err := s.BalanceRows(ctx, report.KindTrialBalance)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "12345678901234.57", got[0].TotalDebit.String())
}

func TestStore_UnknownKind(t *testing.T) {
	s := openMemory(t)
	err := s.InsertBalanceRows(context.Background(), report.Kind("users; DROP TABLE x"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report kind")
}

func TestOpen_FileReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "books.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.InsertLedgerRows(ctx, sampleReport(t).Ledger))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.LedgerRows(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}
