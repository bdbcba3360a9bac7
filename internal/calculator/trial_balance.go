package calculator

import (
	"cmp"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/sliceutil"
)

var balanceByOrder = sliceutil.Asc(func(a, b model.TrialBalanceRow) int { return cmp.Compare(a.Order, b.Order) })

// BuildTrialBalance aggregates ledger rows into one row per account in the
// chart, including accounts without postings. Each ledger row adds its net
// contribution to the balance column of the account's natural side. Rows are
// ordered by display order; accounts sharing an order keep chart order.
func BuildTrialBalance(rows []model.LedgerRow, index *accounts.Index) ([]model.TrialBalanceRow, error) {
	chart := index.All()
	rank := make(map[string]int, len(chart))
	zero := make([]model.TrialBalanceRow, 0, len(chart))
	for i, acct := range chart {
		rank[acct.Name] = i
		zero = append(zero, model.TrialBalanceRow{
			Order:         acct.Order,
			Account:       acct.Name,
			DebitBalance:  decimal.Zero,
			CreditBalance: decimal.Zero,
			TotalDebit:    decimal.Zero,
			TotalCredit:   decimal.Zero,
		})
	}
	byName := sliceutil.ToMap(zero, func(r model.TrialBalanceRow) string { return r.Account })

	for _, r := range rows {
		acct, ok := index.Get(r.Account)
		if !ok {
			return nil, &UnknownAccountError{Account: r.Account, Role: RoleLedger}
		}
		tb := byName[r.Account]

		tb.TotalDebit = tb.TotalDebit.Add(r.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(r.Credit)
		if acct.Side == model.SideDebit {
			tb.DebitBalance = tb.DebitBalance.Add(r.Debit.Sub(r.Credit))
		} else {
			tb.CreditBalance = tb.CreditBalance.Add(r.Credit.Sub(r.Debit))
		}
		byName[r.Account] = tb
	}

	byChart := sliceutil.Asc(func(a, b model.TrialBalanceRow) int { return cmp.Compare(rank[a.Account], rank[b.Account]) })
	return sliceutil.SortStable(sliceutil.Values(byName), balanceByOrder, byChart), nil
}

// Totals sums the columns of a trial balance.
func Totals(rows []model.TrialBalanceRow) model.TrialBalanceTotals {
	t := model.TrialBalanceTotals{
		DebitBalance:  decimal.Zero,
		CreditBalance: decimal.Zero,
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
	}
	for _, r := range rows {
		t.DebitBalance = t.DebitBalance.Add(r.DebitBalance)
		t.CreditBalance = t.CreditBalance.Add(r.CreditBalance)
		t.TotalDebit = t.TotalDebit.Add(r.TotalDebit)
		t.TotalCredit = t.TotalCredit.Add(r.TotalCredit)
	}
	return t
}
