package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/usecase"
)

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID              int64          `json:"id"`
	Description     string         `json:"description"`
	Amount          string         `json:"amount"`
	Date            string         `json:"date"`
	Category        string         `json:"category"`
	PayerID         int64          `json:"payerId"`
	PaymentType     string         `json:"paymentType"`
	Installments    int            `json:"installments"`
	InstallmentNo   int            `json:"installmentNo"`
	ParentExpenseID *int64         `json:"parentExpenseId,omitempty"`
	Split           *SplitResponse `json:"split"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// SplitResponse describes an expense's split strategy in API responses.
type SplitResponse struct {
	Type        string                    `json:"type"`
	Percentages map[int64]decimal.Decimal `json:"percentages,omitempty"`
}

// ExpenseResponseFromDomain converts a domain expense to a response DTO.
func ExpenseResponseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:              e.ID,
		Description:     e.Description,
		Amount:          e.Amount.StringFixed(2),
		Date:            e.Date.Format("2006-01-02"),
		Category:        e.Category,
		PayerID:         e.PayerID,
		PaymentType:     string(e.PaymentType),
		Installments:    e.Installments,
		InstallmentNo:   e.InstallmentNo,
		ParentExpenseID: e.ParentExpenseID,
		Split: &SplitResponse{
			Type:        string(e.Split.Type),
			Percentages: e.Split.Percentages,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ExpenseResponsesFromDomain converts a slice of domain expenses.
func ExpenseResponsesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	responses := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = ExpenseResponseFromDomain(e)
	}

	return responses
}

// MonthlyBalanceResponse represents a month's expenses and net balances.
// Balance map keys are member IDs; positive values mean the member is owed
// money, negative values mean the member owes.
type MonthlyBalanceResponse struct {
	Year      int                `json:"year"`
	Month     int                `json:"month"`
	Expenses  []*ExpenseResponse `json:"expenses"`
	Balances  map[int64]string   `json:"balances"`
	IsSettled bool               `json:"isSettled"`
}

// MonthlyBalanceResponseFromUseCase converts a use case balance result.
func MonthlyBalanceResponseFromUseCase(b *usecase.MonthlyBalance) *MonthlyBalanceResponse {
	balances := make(map[int64]string, len(b.Balances))
	for id, amount := range b.Balances {
		balances[id] = amount.StringFixed(2)
	}

	return &MonthlyBalanceResponse{
		Year:      b.Year,
		Month:     int(b.Month),
		Expenses:  ExpenseResponsesFromDomain(b.Expenses),
		Balances:  balances,
		IsSettled: b.IsSettled,
	}
}

// MemberResponse represents a household member in API responses.
type MemberResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Telephone string `json:"telephone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// MemberResponseFromDomain converts a domain member to a response DTO.
func MemberResponseFromDomain(m domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Telephone: m.Telephone,
		Email:     m.Email,
	}
}

// MemberResponsesFromDomain converts a slice of domain members.
func MemberResponsesFromDomain(members []domain.Member) []*MemberResponse {
	responses := make([]*MemberResponse, len(members))
	for i, m := range members {
		responses[i] = MemberResponseFromDomain(m)
	}

	return responses
}

// CategoryListResponse represents the configured expense categories.
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
