package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthSnapshot is the persisted state of a (year, month) ledger: the last
// computed balances and the settlement flag. The snapshot row also serves
// as the per-month mutual-exclusion scope, locked for the duration of a
// mutating transaction.
type MonthSnapshot struct {
	Year      int
	Month     time.Month
	Balances  map[int64]decimal.Decimal
	IsSettled bool
	SettledAt *time.Time
	UpdatedAt time.Time
}
