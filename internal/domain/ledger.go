package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthLedger owns one month's expense records, the balances derived from
// them and the settlement flag. It is a synchronous in-memory state machine
// with two states, open and settled; settling is a one-way gate after which
// every balance-affecting operation fails with ErrLedgerSettled.
//
// The ledger holds the records dated inside its (year, month). Later
// installments of a credit chain land in later months; those months are
// repaired by their own explicit Recalculate.
//
// Every operation is all-or-nothing: on any error the expense set and the
// balances are left untouched. Callers are expected to serialize mutating
// operations on the same (year, month).
type MonthLedger struct {
	year     int
	month    time.Month
	members  []Member
	expenses []*Expense
	balances map[int64]decimal.Decimal
	settled  bool
}

// NewMonthLedger creates an empty open ledger for the given month.
func NewMonthLedger(year int, month time.Month, members []Member) (*MonthLedger, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	balances := make(map[int64]decimal.Decimal, len(members))
	for _, m := range members {
		balances[m.ID] = decimal.Zero
	}

	return &MonthLedger{
		year:     year,
		month:    month,
		members:  members,
		expenses: nil,
		balances: balances,
	}, nil
}

// LoadMonthLedger rebuilds a ledger from stored state. Expenses must be the
// installment-expanded records of the month in insertion order.
func LoadMonthLedger(year int, month time.Month, members []Member, expenses []*Expense, balances map[int64]decimal.Decimal, settled bool) (*MonthLedger, error) {
	l, err := NewMonthLedger(year, month, members)
	if err != nil {
		return nil, err
	}

	l.expenses = append(l.expenses, expenses...)
	l.settled = settled

	if balances != nil {
		for id, b := range balances {
			l.balances[id] = b
		}
	}

	return l, nil
}

// Year returns the ledger's year.
func (l *MonthLedger) Year() int { return l.year }

// Month returns the ledger's month.
func (l *MonthLedger) Month() time.Month { return l.month }

// IsSettled reports whether the month has been settled.
func (l *MonthLedger) IsSettled() bool { return l.settled }

// Expenses returns the month's expense records in insertion order.
func (l *MonthLedger) Expenses() []*Expense {
	out := make([]*Expense, len(l.expenses))
	copy(out, l.expenses)

	return out
}

// Balances returns a snapshot of the current per-member balances.
func (l *MonthLedger) Balances() map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(l.balances))
	for id, b := range l.balances {
		out[id] = b
	}

	return out
}

// InsertExpense validates and expands the expense, appends the records
// dated inside this month and recomputes balances over the full expense
// set. It returns the complete expanded chain, later-month installments
// included, for persistence.
func (l *MonthLedger) InsertExpense(e *Expense) ([]*Expense, error) {
	if l.settled {
		return nil, ErrLedgerSettled
	}

	if err := e.Validate(MemberIDs(l.members)); err != nil {
		return nil, err
	}

	chain := ExpandInstallments(e)

	candidate := make([]*Expense, 0, len(l.expenses)+len(chain))
	candidate = append(candidate, l.expenses...)
	for _, inst := range chain {
		if l.inMonth(inst.Date) {
			candidate = append(candidate, inst)
		}
	}

	balances, err := AggregateBalances(candidate, l.members)
	if err != nil {
		return nil, err
	}

	l.expenses = candidate
	l.balances = balances

	return chain, nil
}

// UpdateExpense replaces the whole chain rooted at id with a re-expansion
// of the new data and recomputes balances. Only the first installment of a
// chain may be targeted.
func (l *MonthLedger) UpdateExpense(id int64, newData *Expense) ([]*Expense, error) {
	if l.settled {
		return nil, ErrLedgerSettled
	}

	if err := l.checkChainRoot(id); err != nil {
		return nil, err
	}

	if err := newData.Validate(MemberIDs(l.members)); err != nil {
		return nil, err
	}

	root := *newData
	root.ID = id
	chain := ExpandInstallments(&root)

	candidate := make([]*Expense, 0, len(l.expenses)+len(chain))
	replaced := false
	for _, stored := range l.expenses {
		if stored.ChainID() == id {
			if !replaced {
				for _, inst := range chain {
					if l.inMonth(inst.Date) {
						candidate = append(candidate, inst)
					}
				}
				replaced = true
			}
			continue
		}
		candidate = append(candidate, stored)
	}

	balances, err := AggregateBalances(candidate, l.members)
	if err != nil {
		return nil, err
	}

	l.expenses = candidate
	l.balances = balances

	return chain, nil
}

// DeleteExpense removes the whole chain rooted at id and recomputes
// balances. Only the first installment of a chain may be targeted.
func (l *MonthLedger) DeleteExpense(id int64) error {
	if l.settled {
		return ErrLedgerSettled
	}

	if err := l.checkChainRoot(id); err != nil {
		return err
	}

	candidate := make([]*Expense, 0, len(l.expenses))
	for _, stored := range l.expenses {
		if stored.ChainID() != id {
			candidate = append(candidate, stored)
		}
	}

	balances, err := AggregateBalances(candidate, l.members)
	if err != nil {
		return err
	}

	l.expenses = candidate
	l.balances = balances

	return nil
}

// Recalculate recomputes balances from the stored expense set without
// altering any expense. Two consecutive calls with no intervening mutation
// yield identical balances.
func (l *MonthLedger) Recalculate() (map[int64]decimal.Decimal, error) {
	if l.settled {
		return nil, ErrLedgerSettled
	}

	balances, err := AggregateBalances(l.expenses, l.members)
	if err != nil {
		return nil, err
	}

	l.balances = balances

	return l.Balances(), nil
}

// Settle freezes the balances current at this moment. It does not
// recalculate first; callers wanting fresh balances recalculate explicitly
// before settling.
func (l *MonthLedger) Settle() error {
	if l.settled {
		return ErrLedgerSettled
	}

	l.settled = true

	return nil
}

func (l *MonthLedger) checkChainRoot(id int64) error {
	for _, stored := range l.expenses {
		if stored.ID == id {
			if !stored.IsChainRoot() {
				return ErrInstallmentNotEditable
			}

			return nil
		}
	}

	return ErrExpenseNotFound
}

func (l *MonthLedger) inMonth(date time.Time) bool {
	return date.Year() == l.year && date.Month() == l.month
}
