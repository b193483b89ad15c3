package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expectError bool
	}{
		{"valid", "cena del viernes", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", MaxDescriptionLength+1), true},
		{"max length", strings.Repeat("a", MaxDescriptionLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDescription(tt.description)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(dec("10.50")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateAmount(dec("0")); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	if err := ValidateAmount(dec("-3.00")); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	if err := ValidateAmount(dec(MaxExpenseAmount).Add(dec("0.01"))); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateInstallments(t *testing.T) {
	tests := []struct {
		name         string
		paymentType  PaymentType
		installments int
		expectError  bool
	}{
		{"debit single", PaymentTypeDebit, 1, false},
		{"credit single", PaymentTypeCredit, 1, false},
		{"credit multiple", PaymentTypeCredit, 12, false},
		{"zero installments", PaymentTypeCredit, 0, true},
		{"negative installments", PaymentTypeDebit, -1, true},
		{"debit with installments", PaymentTypeDebit, 3, true},
		{"too many installments", PaymentTypeCredit, MaxInstallments + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInstallments(tt.paymentType, tt.installments)

			if tt.expectError && !errors.Is(err, ErrInvalidInstallmentCount) {
				t.Errorf("expected ErrInvalidInstallmentCount, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateYearMonth(t *testing.T) {
	if err := ValidateYearMonth(2025, 4); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateYearMonth(2025, 0); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}

	if err := ValidateYearMonth(2025, 13); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}

	if err := ValidateYearMonth(1999, 1); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-04-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Year() != 2025 || d.Month() != 4 || d.Day() != 10 {
		t.Errorf("parsed wrong date: %s", d)
	}

	if _, err := ParseDate("10/04/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
