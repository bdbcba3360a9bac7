package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is one parsed row of a bank export.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = outflow, positive = inflow
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}
