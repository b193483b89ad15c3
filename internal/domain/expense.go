package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType distinguishes immediate payments from credit purchases.
type PaymentType string

const (
	PaymentTypeDebit  PaymentType = "debit"
	PaymentTypeCredit PaymentType = "credit"
)

// Expense is one stored expense record. A credit purchase with N
// installments is stored as N records sharing one logical chain: the first
// (InstallmentNo=1) is authoritative, the rest carry ParentExpenseID
// pointing at it.
type Expense struct {
	ID              int64
	Description     string
	Amount          decimal.Decimal
	Date            time.Time
	Category        string
	PayerID         int64
	PaymentType     PaymentType
	Installments    int
	InstallmentNo   int
	ParentExpenseID *int64
	Split           SplitStrategy
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsChainRoot reports whether the record is the first installment of its
// chain. Single debit expenses are their own (one element) chain.
func (e *Expense) IsChainRoot() bool {
	return e.InstallmentNo == 1
}

// ChainID returns the id shared by all records of the expense's chain.
func (e *Expense) ChainID() int64 {
	if e.ParentExpenseID != nil {
		return *e.ParentExpenseID
	}

	return e.ID
}

// Validate checks an expense against the current member set before it is
// expanded or aggregated.
func (e *Expense) Validate(memberIDs []int64) error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if e.Installments < 1 {
		return fmt.Errorf("%w: installments must be at least 1", ErrInvalidInstallmentCount)
	}

	if e.PaymentType == PaymentTypeDebit && e.Installments > 1 {
		return fmt.Errorf("%w: debit payments cannot have installments", ErrInvalidInstallmentCount)
	}

	payerKnown := false
	for _, id := range memberIDs {
		if id == e.PayerID {
			payerKnown = true
			break
		}
	}

	if !payerKnown {
		return fmt.Errorf("%w: payer %d", ErrUnknownMember, e.PayerID)
	}

	return e.Split.Validate(memberIDs)
}
