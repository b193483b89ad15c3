package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hogar/gastos/internal/adapter/http/dto"
	"github.com/hogar/gastos/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrExpenseNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLedgerSettled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInstallmentNotEditable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidMonth):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAmountTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDescription):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidInstallmentCount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidSplitType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingPercentage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownMember):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoMembers):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIDParam parses the {id} URL parameter as an int64.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseYearMonthParams parses the {year} and {month} URL parameters and
// validates the pair.
func parseYearMonthParams(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, domain.ErrInvalidDate
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, domain.ErrInvalidMonth
	}

	if err := domain.ValidateYearMonth(year, month); err != nil {
		return 0, 0, err
	}

	return year, time.Month(month), nil
}
