package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hogar/gastos/internal/adapter/http/dto"
	"github.com/hogar/gastos/internal/usecase"
)

// ShareService is the use case surface the share handler depends on.
type ShareService interface {
	GetMonthlyBalance(ctx context.Context, year int, month time.Month) (*usecase.MonthlyBalance, error)
	Recalculate(ctx context.Context, year int, month time.Month) (*usecase.MonthlyBalance, error)
	Settle(ctx context.Context, year int, month time.Month) (*usecase.MonthlyBalance, error)
}

// ShareHandler handles monthly balance HTTP requests.
type ShareHandler struct {
	shareUC ShareService
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(shareUC ShareService) *ShareHandler {
	return &ShareHandler{shareUC: shareUC}
}

// Get returns the expenses and net balances for a month.
func (h *ShareHandler) Get(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err.Error())
		return
	}

	balance, err := h.shareUC.GetMonthlyBalance(r.Context(), year, month)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get monthly balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlyBalanceResponseFromUseCase(balance))
}

// Recalculate recomputes a month's balances from its stored expenses.
func (h *ShareHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err.Error())
		return
	}

	balance, err := h.shareUC.Recalculate(r.Context(), year, month)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to recalculate month", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlyBalanceResponseFromUseCase(balance))
}

// Settle freezes a month. Settled months reject every further mutation.
func (h *ShareHandler) Settle(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err.Error())
		return
	}

	balance, err := h.shareUC.Settle(r.Context(), year, month)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to settle month", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlyBalanceResponseFromUseCase(balance))
}
