package domain

import (
	"encoding/json"
	"time"
)

// Event types
const (
	EventTypeExpenseCreated    = "expense.created"
	EventTypeExpenseUpdated    = "expense.updated"
	EventTypeExpenseDeleted    = "expense.deleted"
	EventTypeMonthSettled      = "month.settled"
	EventTypeMonthRecalculated = "month.recalculated"
)

// Aggregate types
const (
	AggregateTypeExpense = "expense"
	AggregateTypeMonth   = "month"
)

// OutboxEvent represents an event to be published.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// ExpenseCreatedEvent payload
type ExpenseCreatedEvent struct {
	ExpenseID    int64  `json:"expense_id"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	PayerID      int64  `json:"payer_id"`
	Installments int    `json:"installments"`
}

// ExpenseUpdatedEvent payload
type ExpenseUpdatedEvent struct {
	ExpenseID    int64  `json:"expense_id"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Installments int    `json:"installments"`
}

// ExpenseDeletedEvent payload
type ExpenseDeletedEvent struct {
	ExpenseID int64 `json:"expense_id"`
}

// MonthSettledEvent payload
type MonthSettledEvent struct {
	Year     int               `json:"year"`
	Month    int               `json:"month"`
	Balances map[string]string `json:"balances"`
}

// MonthRecalculatedEvent payload
type MonthRecalculatedEvent struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// EventPayload converts a typed event payload to the generic form stored in
// the outbox.
func EventPayload(v any) map[string]any {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": "failed to marshal payload"}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{"error": "failed to unmarshal payload"}
	}

	return result
}
