package accounts

import "github.com/cleared-dev/books/internal/model"

// Names of accounts the bank importer falls back to.
const (
	UncategorizedExpense = "Uncategorized Expense"
	UncategorizedIncome  = "Uncategorized Income"
)

// DefaultChart returns the default chart of accounts for an entity type.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "sole_proprietor":
		return soleProprietorChart()
	default:
		return soleProprietorChart()
	}
}

func soleProprietorChart() []model.Account {
	bs, is := model.StatementBalanceSheet, model.StatementIncomeStatement
	dr, cr := model.SideDebit, model.SideCredit
	return []model.Account{
		{Name: "Cash", Side: dr, Statement: bs, Order: 100, Description: "Cash on hand"},
		{Name: "Business Checking", Side: dr, Statement: bs, Order: 110, Description: "Primary checking account"},
		{Name: "Accounts Receivable", Side: dr, Statement: bs, Order: 130},
		{Name: "Credit Card", Side: cr, Statement: bs, Order: 210, Description: "Business credit card"},
		{Name: "Accounts Payable", Side: cr, Statement: bs, Order: 220},
		{Name: "Owner's Capital", Side: cr, Statement: bs, Order: 300, Description: "Owner's contributions"},
		{Name: "Sales", Side: cr, Statement: is, Order: 400},
		{Name: UncategorizedIncome, Side: cr, Statement: is, Order: 490, Description: "Imported inflows awaiting review"},
		{Name: "Advertising", Side: dr, Statement: is, Order: 510},
		{Name: "Software & SaaS", Side: dr, Statement: is, Order: 520, Description: "Software subscriptions"},
		{Name: "Office Supplies", Side: dr, Statement: is, Order: 530},
		{Name: "Professional Fees", Side: dr, Statement: is, Order: 540, Description: "Legal, accounting, consulting"},
		{Name: UncategorizedExpense, Side: dr, Statement: is, Order: 590, Description: "Imported outflows awaiting review"},
	}
}
