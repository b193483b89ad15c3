package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hogar/gastos/internal/adapter/http/dto"
	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/usecase"
)

type expenseServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error)
	updateFn func(ctx context.Context, id int64, input usecase.CreateExpenseInput) (*domain.Expense, error)
	deleteFn func(ctx context.Context, id int64) error
	getFn    func(ctx context.Context, id int64) (*domain.Expense, error)
	listFn   func(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error)
}

func (s *expenseServiceStub) CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
	return s.createFn(ctx, input)
}

func (s *expenseServiceStub) UpdateExpense(ctx context.Context, id int64, input usecase.CreateExpenseInput) (*domain.Expense, error) {
	return s.updateFn(ctx, id, input)
}

func (s *expenseServiceStub) DeleteExpense(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *expenseServiceStub) GetExpense(ctx context.Context, id int64) (*domain.Expense, error) {
	return s.getFn(ctx, id)
}

func (s *expenseServiceStub) ListExpenses(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error) {
	return s.listFn(ctx, year, month)
}

func expenseRouter(h *ExpenseHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/expenses", h.Create)
	r.Get("/expenses/{id}", h.Get)
	r.Get("/expenses/{year}/{month}", h.ListByMonth)
	r.Put("/expenses/{id}", h.Update)
	r.Delete("/expenses/{id}", h.Delete)

	return r
}

func TestExpenseHandler_Create_Success(t *testing.T) {
	expense := &domain.Expense{
		ID:            1,
		Description:   "Groceries",
		Amount:        decimal.RequireFromString("90.00"),
		PaymentType:   domain.PaymentTypeDebit,
		Installments:  1,
		InstallmentNo: 1,
		Split:         domain.EqualSplit(),
	}

	var captured usecase.CreateExpenseInput
	h := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			captured = input
			return expense, nil
		},
	})

	body, _ := json.Marshal(dto.CreateExpenseRequest{
		Description: "Groceries",
		Amount:      "90.00",
		Date:        "2025-04-15",
		Category:    "food",
		PayerID:     1,
		PaymentType: "debit",
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Description != "Groceries" || captured.PayerID != 1 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.ExpenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 {
		t.Fatalf("expected expense id 1, got %d", resp.ID)
	}
}

func TestExpenseHandler_Create_InvalidBody(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			t.Fatal("CreateExpense should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExpenseHandler_Create_SettledMonth(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			return nil, domain.ErrLedgerSettled
		},
	})

	body, _ := json.Marshal(dto.CreateExpenseRequest{
		Description: "Groceries",
		Amount:      "90.00",
		Date:        "2025-04-15",
		Category:    "food",
		PayerID:     1,
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestExpenseHandler_Update_Success(t *testing.T) {
	var capturedID int64
	h := NewExpenseHandler(&expenseServiceStub{
		updateFn: func(ctx context.Context, id int64, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			capturedID = id
			return &domain.Expense{ID: id, Split: domain.EqualSplit()}, nil
		},
	})

	body, _ := json.Marshal(dto.UpdateExpenseRequest{
		Description: "Groceries",
		Amount:      "60.00",
		Date:        "2025-04-15",
		Category:    "food",
		PayerID:     1,
	})

	req := httptest.NewRequest(http.MethodPut, "/expenses/42", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedID != 42 {
		t.Fatalf("expected id 42, got %d", capturedID)
	}
}

func TestExpenseHandler_Update_SecondInstallment(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		updateFn: func(ctx context.Context, id int64, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			return nil, domain.ErrInstallmentNotEditable
		},
	})

	body, _ := json.Marshal(dto.UpdateExpenseRequest{
		Description: "Laptop",
		Amount:      "1200.00",
		Date:        "2025-05-01",
		Category:    "electronics",
		PayerID:     1,
	})

	req := httptest.NewRequest(http.MethodPut, "/expenses/11", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestExpenseHandler_Delete_Success(t *testing.T) {
	var capturedID int64
	h := NewExpenseHandler(&expenseServiceStub{
		deleteFn: func(ctx context.Context, id int64) error {
			capturedID = id
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/expenses/7", nil)
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if capturedID != 7 {
		t.Fatalf("expected id 7, got %d", capturedID)
	}
}

func TestExpenseHandler_Get_NotFound(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Expense, error) {
			return nil, domain.ErrExpenseNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/expenses/404", nil)
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExpenseHandler_ListByMonth_Success(t *testing.T) {
	var capturedYear int
	var capturedMonth time.Month
	h := NewExpenseHandler(&expenseServiceStub{
		listFn: func(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error) {
			capturedYear, capturedMonth = year, month
			return []*domain.Expense{
				{ID: 1, Description: "Groceries", Amount: decimal.RequireFromString("90.00"), InstallmentNo: 1, Split: domain.EqualSplit()},
				{ID: 2, Description: "Laptop", Amount: decimal.RequireFromString("33.33"), InstallmentNo: 2, Split: domain.EqualSplit()},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/expenses/2025/4", nil)
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedYear != 2025 || capturedMonth != time.April {
		t.Fatalf("expected 2025-04, got %d-%d", capturedYear, capturedMonth)
	}

	var resp []dto.ExpenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(resp))
	}
	if resp[1].InstallmentNo != 2 {
		t.Fatalf("expected installment 2, got %d", resp[1].InstallmentNo)
	}
}

func TestExpenseHandler_ListByMonth_InvalidMonth(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		listFn: func(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error) {
			t.Fatal("ListExpenses should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/expenses/2025/13", nil)
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExpenseHandler_Get_InvalidID(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Expense, error) {
			t.Fatal("GetExpense should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/expenses/abc", nil)
	rec := httptest.NewRecorder()

	expenseRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
