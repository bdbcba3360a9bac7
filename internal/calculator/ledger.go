package calculator

import (
	"cmp"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/sliceutil"
)

var (
	entryByDate = sliceutil.Asc(func(a, b model.JournalEntry) int { return a.Date.Compare(b.Date) })

	rowByOrder   = sliceutil.Asc(func(a, b model.LedgerRow) int { return cmp.Compare(a.AccountOrder, b.AccountOrder) })
	rowByAccount = sliceutil.Asc(func(a, b model.LedgerRow) int { return cmp.Compare(a.Account, b.Account) })
	rowByDate    = sliceutil.Asc(func(a, b model.LedgerRow) int { return a.Date.Compare(b.Date) })
)

// BuildLedger posts every journal entry to its debit and credit accounts and
// returns the general ledger.
//
// Running balances are accumulated in date order (ties keep journal order),
// signed by each account's natural side. The result is then presented grouped
// by account: ordered by display order, account name and date. The input
// slice is not modified.
func BuildLedger(entries []model.JournalEntry, index *accounts.Index) ([]model.LedgerRow, error) {
	sorted := sliceutil.SortStable(append([]model.JournalEntry(nil), entries...), entryByDate)

	balances := make(map[string]decimal.Decimal, index.Len())
	rows := make([]model.LedgerRow, 0, 2*len(sorted))

	for _, e := range sorted {
		for _, side := range []model.Side{model.SideDebit, model.SideCredit} {
			name := e.Account(side)
			acct, ok := index.Get(name)
			if !ok {
				return nil, &UnknownAccountError{Account: name, Role: roleFor(side), EntryID: e.ID}
			}

			amount := e.Amount(side)
			if acct.Side == side {
				balances[name] = balances[name].Add(amount)
			} else {
				balances[name] = balances[name].Sub(amount)
			}

			row := model.LedgerRow{
				EntryID:        e.ID,
				AccountOrder:   acct.Order,
				Date:           e.Date,
				Account:        name,
				CounterAccount: e.Account(opposite(side)),
				Summary:        e.Summary,
				Debit:          decimal.Zero,
				Credit:         decimal.Zero,
				Balance:        balances[name],
			}
			if side == model.SideDebit {
				row.Debit = amount
			} else {
				row.Credit = amount
			}
			rows = append(rows, row)
		}
	}

	sliceutil.SortStable(rows, rowByOrder, rowByAccount, rowByDate)

	if len(rows) != 2*len(entries) {
		return nil, &LedgerIntegrityError{Entries: len(entries), Rows: len(rows)}
	}
	return rows, nil
}

func roleFor(side model.Side) Role {
	if side == model.SideDebit {
		return RoleDebit
	}
	return RoleCredit
}

func opposite(side model.Side) model.Side {
	if side == model.SideDebit {
		return model.SideCredit
	}
	return model.SideDebit
}
