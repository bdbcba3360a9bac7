package calculator

import "fmt"

// Role names the slot an account was expected to fill when it could not be
// found in the chart of accounts.
type Role string

const (
	RoleDebit     Role = "debit"
	RoleCredit    Role = "credit"
	RoleLedger    Role = "ledger"
	RoleStatement Role = "statement"
)

// UnknownAccountError reports a reference to an account missing from the chart.
type UnknownAccountError struct {
	Account string
	Role    Role
	EntryID string // empty for ledger and statement rows
}

func (e *UnknownAccountError) Error() string {
	if e.EntryID != "" {
		return fmt.Sprintf("entry %s: %s account %q is not in the chart of accounts", e.EntryID, e.Role, e.Account)
	}
	return fmt.Sprintf("%s account %q is not in the chart of accounts", e.Role, e.Account)
}

// LedgerIntegrityError reports a general ledger whose row count is not twice
// the number of journal entries.
type LedgerIntegrityError struct {
	Entries int
	Rows    int
}

func (e *LedgerIntegrityError) Error() string {
	return fmt.Sprintf("general ledger has %d rows for %d journal entries, want %d", e.Rows, e.Entries, 2*e.Entries)
}
