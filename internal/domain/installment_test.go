package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func creditExpense(id int64, amount string, date time.Time, installments int) *Expense {
	return &Expense{
		ID:           id,
		Description:  "washing machine",
		Amount:       dec(amount),
		Date:         date,
		Category:     "home",
		PayerID:      1,
		PaymentType:  PaymentTypeCredit,
		Installments: installments,
		Split:        EqualSplit(),
	}
}

func TestExpandInstallments_CreditChain(t *testing.T) {
	date := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	chain := ExpandInstallments(creditExpense(42, "100.00", date, 3))

	if len(chain) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(chain))
	}

	wantAmounts := []string{"33.34", "33.33", "33.33"}
	for i, inst := range chain {
		if !inst.Amount.Equal(dec(wantAmounts[i])) {
			t.Errorf("installment %d: expected amount %s, got %s", i+1, wantAmounts[i], inst.Amount)
		}

		if inst.InstallmentNo != i+1 {
			t.Errorf("installment %d: expected installmentNo %d, got %d", i+1, i+1, inst.InstallmentNo)
		}

		wantDate := time.Date(2025, time.March+time.Month(i), 15, 0, 0, 0, 0, time.UTC)
		if !inst.Date.Equal(wantDate) {
			t.Errorf("installment %d: expected date %s, got %s", i+1, wantDate, inst.Date)
		}
	}

	if chain[0].ParentExpenseID != nil {
		t.Error("first installment must not reference a parent")
	}

	for _, inst := range chain[1:] {
		if inst.ParentExpenseID == nil || *inst.ParentExpenseID != 42 {
			t.Errorf("installment %d: expected parent id 42, got %v", inst.InstallmentNo, inst.ParentExpenseID)
		}

		if inst.ID != 0 {
			t.Errorf("installment %d: derived records must not carry an id", inst.InstallmentNo)
		}
	}
}

func TestExpandInstallments_AmountsSumToTotal(t *testing.T) {
	date := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, n := range []int{2, 3, 7, 12} {
		chain := ExpandInstallments(creditExpense(1, "999.97", date, n))

		sum := decimal.Zero
		for _, inst := range chain {
			sum = sum.Add(inst.Amount)
		}

		if !sum.Equal(dec("999.97")) {
			t.Errorf("%d installments: amounts sum to %s, expected 999.97", n, sum)
		}
	}
}

func TestExpandInstallments_DebitUnchanged(t *testing.T) {
	date := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
	e := &Expense{
		ID:           7,
		Description:  "groceries",
		Amount:       dec("54.20"),
		Date:         date,
		PayerID:      1,
		PaymentType:  PaymentTypeDebit,
		Installments: 1,
		Split:        EqualSplit(),
	}

	chain := ExpandInstallments(e)

	if len(chain) != 1 {
		t.Fatalf("expected single record, got %d", len(chain))
	}

	got := chain[0]
	if !got.Amount.Equal(e.Amount) || !got.Date.Equal(e.Date) || got.InstallmentNo != 1 || got.ParentExpenseID != nil {
		t.Errorf("debit expense must pass through unchanged, got %+v", got)
	}
}

func TestExpandInstallments_Pure(t *testing.T) {
	date := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	e := creditExpense(9, "250.00", date, 4)

	first := ExpandInstallments(e)
	second := ExpandInstallments(e)

	if len(first) != len(second) {
		t.Fatalf("expansion is not deterministic: %d vs %d records", len(first), len(second))
	}

	for i := range first {
		if !first[i].Amount.Equal(second[i].Amount) || !first[i].Date.Equal(second[i].Date) {
			t.Errorf("installment %d differs between expansions", i+1)
		}
	}
}

func TestExpandInstallments_ClampsMonthEnd(t *testing.T) {
	date := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	chain := ExpandInstallments(creditExpense(3, "90.00", date, 3))

	wantDates := []time.Time{
		time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	}

	for i, inst := range chain {
		if !inst.Date.Equal(wantDates[i]) {
			t.Errorf("installment %d: expected date %s, got %s", i+1, wantDates[i], inst.Date)
		}
	}
}

func TestExpandInstallments_YearRollover(t *testing.T) {
	date := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)
	chain := ExpandInstallments(creditExpense(5, "30.00", date, 3))

	want := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	if !chain[2].Date.Equal(want) {
		t.Errorf("expected third installment on %s, got %s", want, chain[2].Date)
	}
}
