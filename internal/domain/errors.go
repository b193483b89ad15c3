package domain

import "errors"

var (
	// Ledger errors
	ErrLedgerSettled   = errors.New("month is settled and can no longer be modified")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
	ErrNoMembers       = errors.New("member set is empty")

	// Expense errors
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrInvalidInstallmentCount = errors.New("invalid installment count")
	ErrInstallmentNotEditable  = errors.New("only the first installment of a chain can be edited or deleted")

	// Split errors
	ErrInvalidSplitType  = errors.New("unknown split strategy type")
	ErrMissingPercentage = errors.New("percentage entry missing for member")
	ErrUnknownMember     = errors.New("split references a member outside the member set")
)
