package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/usecase"
)

// CreateExpenseRequest represents a request to create an expense.
type CreateExpenseRequest struct {
	Description  string        `json:"description"`
	Amount       string        `json:"amount"`
	Date         string        `json:"date"`
	Category     string        `json:"category"`
	PayerID      int64         `json:"payerId"`
	PaymentType  string        `json:"paymentType"`
	Installments int           `json:"installments"`
	Split        *SplitRequest `json:"split,omitempty"`
}

// SplitRequest describes how an expense is divided among members.
// Percentages is only used when Type is "percentage"; keys are member IDs.
type SplitRequest struct {
	Type        string                    `json:"type"`
	Percentages map[int64]decimal.Decimal `json:"percentages,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r *CreateExpenseRequest) ToUseCaseInput() (usecase.CreateExpenseInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.CreateExpenseInput{}, domain.ErrInvalidAmount
	}

	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return usecase.CreateExpenseInput{}, err
	}

	split, err := splitFromRequest(r.Split)
	if err != nil {
		return usecase.CreateExpenseInput{}, err
	}

	paymentType := domain.PaymentType(r.PaymentType)
	if r.PaymentType == "" {
		paymentType = domain.PaymentTypeDebit
	}

	installments := r.Installments
	if installments == 0 {
		installments = 1
	}

	return usecase.CreateExpenseInput{
		Description:  r.Description,
		Amount:       amount,
		Date:         date,
		Category:     r.Category,
		PayerID:      r.PayerID,
		PaymentType:  paymentType,
		Installments: installments,
		Split:        split,
	}, nil
}

// UpdateExpenseRequest represents a request to update an expense.
// It carries the same fields as creation; the whole installment chain
// is re-expanded from the updated values.
type UpdateExpenseRequest struct {
	Description  string        `json:"description"`
	Amount       string        `json:"amount"`
	Date         string        `json:"date"`
	Category     string        `json:"category"`
	PayerID      int64         `json:"payerId"`
	PaymentType  string        `json:"paymentType"`
	Installments int           `json:"installments"`
	Split        *SplitRequest `json:"split,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r *UpdateExpenseRequest) ToUseCaseInput() (usecase.CreateExpenseInput, error) {
	create := CreateExpenseRequest(*r)
	return create.ToUseCaseInput()
}

func splitFromRequest(req *SplitRequest) (domain.SplitStrategy, error) {
	if req == nil {
		return domain.EqualSplit(), nil
	}

	switch domain.SplitType(req.Type) {
	case domain.SplitTypeEqual:
		return domain.EqualSplit(), nil
	case domain.SplitTypePercentage:
		return domain.PercentageSplit(req.Percentages), nil
	default:
		return domain.SplitStrategy{}, domain.ErrInvalidSplitType
	}
}
