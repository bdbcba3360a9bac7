package importer

import (
	"fmt"
	"regexp"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/model"
)

// Mapping names the accounts a bank transaction posts to.
type Mapping struct {
	Bank    string // the bank account in the chart, e.g. "Business Checking"
	Expense string // debited for outflows
	Income  string // credited for inflows
}

// DefaultMapping posts to bank and the uncategorized accounts.
func DefaultMapping(bank string) Mapping {
	return Mapping{Bank: bank, Expense: accounts.UncategorizedExpense, Income: accounts.UncategorizedIncome}
}

// ToEntry converts a bank transaction into journal entry parameters.
// Outflows debit the expense account and credit the bank; inflows debit the
// bank and credit the income account.
func ToEntry(txn model.BankTransaction, m Mapping) journal.AddParams {
	amount := txn.Amount.Abs()
	p := journal.AddParams{
		Date:         txn.Date,
		DebitAmount:  amount,
		CreditAmount: amount,
		Summary:      fmt.Sprintf("%s [%s]", txn.Description, txn.Reference),
	}
	if txn.Amount.IsNegative() {
		p.DebitAccount, p.CreditAccount = m.Expense, m.Bank
	} else {
		p.DebitAccount, p.CreditAccount = m.Bank, m.Income
	}
	return p
}

var refPattern = regexp.MustCompile(`\[([A-Za-z0-9_.\-]+)\]\s*$`)

// References returns the bank references already recorded in entries.
func References(entries []model.JournalEntry) map[string]bool {
	seen := make(map[string]bool)
	for _, e := range entries {
		if m := refPattern.FindStringSubmatch(e.Summary); m != nil {
			seen[m[1]] = true
		}
	}
	return seen
}

// Plan converts txns to entry parameters, skipping zero amounts and
// references already in seen. It returns the entries and the skip count.
func Plan(txns []model.BankTransaction, m Mapping, seen map[string]bool) ([]journal.AddParams, int) {
	if seen == nil {
		seen = make(map[string]bool)
	}
	var out []journal.AddParams
	skipped := 0
	for _, txn := range txns {
		if txn.Amount.IsZero() || seen[txn.Reference] {
			skipped++
			continue
		}
		seen[txn.Reference] = true
		out = append(out, ToEntry(txn, m))
	}
	return out, skipped
}
