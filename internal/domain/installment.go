package domain

import "time"

// ExpandInstallments turns one expense into its stored installment chain.
// A credit purchase with N>1 installments yields N records: amounts are an
// even split of the total with the remainder on the first record, dates
// advance one calendar month per index, and every later record points at
// the first via ParentExpenseID. Debit or single-installment expenses come
// back as a one-element chain, unchanged.
//
// The expansion is pure: no I/O, and the same input always yields the same
// output. Children's ParentExpenseID is set only when the root already has
// an id; otherwise the repository links them after the root is persisted.
func ExpandInstallments(e *Expense) []*Expense {
	if e.PaymentType != PaymentTypeCredit || e.Installments <= 1 {
		single := *e
		single.Installments = maxInt(e.Installments, 1)
		single.InstallmentNo = 1
		single.ParentExpenseID = nil

		return []*Expense{&single}
	}

	amounts := SplitEvenly(e.Amount, e.Installments)

	chain := make([]*Expense, e.Installments)
	for i := 0; i < e.Installments; i++ {
		inst := *e
		inst.Amount = amounts[i]
		inst.Date = addMonths(e.Date, i)
		inst.InstallmentNo = i + 1
		inst.ParentExpenseID = nil

		if i > 0 {
			inst.ID = 0
			if e.ID != 0 {
				rootID := e.ID
				inst.ParentExpenseID = &rootID
			}
		}

		chain[i] = &inst
	}

	return chain
}

// addMonths advances t by the given number of calendar months, clamping the
// day to the last day of the target month (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()

	if day > lastDay {
		day = lastDay
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
