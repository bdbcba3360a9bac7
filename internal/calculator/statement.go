package calculator

import (
	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/model"
)

// FilterByStatementType keeps the trial balance rows whose account is reported
// on statement st. Input order is preserved.
func FilterByStatementType(rows []model.TrialBalanceRow, index *accounts.Index, st model.StatementType) ([]model.TrialBalanceRow, error) {
	out := make([]model.TrialBalanceRow, 0, len(rows))
	for _, r := range rows {
		acct, ok := index.Get(r.Account)
		if !ok {
			return nil, &UnknownAccountError{Account: r.Account, Role: RoleStatement}
		}
		if acct.Statement == st {
			out = append(out, r)
		}
	}
	return out, nil
}
