package model

// Side is the natural balance side of an account, and the side a posting hits.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// StatementType selects the financial statement an account is reported on.
type StatementType string

const (
	StatementBalanceSheet    StatementType = "balance_sheet"
	StatementIncomeStatement StatementType = "income_statement"
)

// Valid reports whether st is a known statement type.
func (st StatementType) Valid() bool {
	return st == StatementBalanceSheet || st == StatementIncomeStatement
}

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	Name        string
	Side        Side
	Statement   StatementType
	Order       int // display order in ledger and statements
	Description string
}
