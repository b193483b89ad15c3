package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hogar/gastos/internal/adapter/http/dto"
	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/usecase"
)

// ExpenseService is the use case surface the expense handler depends on.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, id int64, input usecase.CreateExpenseInput) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	GetExpense(ctx context.Context, id int64) (*domain.Expense, error)
	ListExpenses(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error)
}

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

// Create creates a new expense. Credit expenses with more than one
// installment are expanded into a chain; the first installment is returned.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense", err.Error())
		return
	}

	expense, err := h.expenseUC.CreateExpense(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create expense", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseResponseFromDomain(expense))
}

// Get returns a single expense by id.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id", err.Error())
		return
	}

	expense, err := h.expenseUC.GetExpense(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get expense", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseResponseFromDomain(expense))
}

// ListByMonth returns the expense records dated inside a month, in stored
// order. Later installments of chains started in earlier months show up in
// their own month.
func (h *ExpenseHandler) ListByMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err.Error())
		return
	}

	expenses, err := h.expenseUC.ListExpenses(r.Context(), year, month)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list expenses", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseResponsesFromDomain(expenses))
}

// Update replaces an expense. Only the first installment of a chain can be
// updated; the chain is re-expanded from the new values.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id", err.Error())
		return
	}

	var req dto.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense", err.Error())
		return
	}

	expense, err := h.expenseUC.UpdateExpense(r.Context(), id, input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update expense", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseResponseFromDomain(expense))
}

// Delete removes an expense and, for installment chains, every later
// installment with it.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id", err.Error())
		return
	}

	if err := h.expenseUC.DeleteExpense(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete expense", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
