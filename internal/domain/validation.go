package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidDate        = errors.New("invalid date")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxCategoryLength    = 100
	MaxExpenseAmount     = "100000000" // 100 million
	MaxInstallments      = 120
)

// ValidateDescription validates an expense description.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidDescription)
	}

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidateCategory validates a category name.
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)

	if category == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidCategory)
	}

	if len(category) > MaxCategoryLength {
		return fmt.Errorf("%w: category exceeds %d characters", ErrInvalidCategory, MaxCategoryLength)
	}

	return nil
}

// ValidateAmount validates an expense amount against engine bounds.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxExpenseAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxExpenseAmount)
	}

	return nil
}

// ValidateInstallments validates an installment count for a payment type.
func ValidateInstallments(paymentType PaymentType, installments int) error {
	if installments < 1 {
		return fmt.Errorf("%w: installments must be at least 1", ErrInvalidInstallmentCount)
	}

	if installments > MaxInstallments {
		return fmt.Errorf("%w: maximum is %d installments", ErrInvalidInstallmentCount, MaxInstallments)
	}

	if paymentType == PaymentTypeDebit && installments > 1 {
		return fmt.Errorf("%w: debit payments cannot have installments", ErrInvalidInstallmentCount)
	}

	return nil
}

// ValidateYearMonth validates a (year, month) ledger key.
func ValidateYearMonth(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	if year < 2000 || year > 2100 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidDate, year)
	}

	return nil
}

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, value)
	}

	return t, nil
}
