package handler

import (
	"context"
	"net/http"

	"github.com/hogar/gastos/internal/adapter/http/dto"
)

// CategoryService is the use case surface the category handler depends on.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]string, error)
}

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categoryUC CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryUC CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC}
}

// List returns the configured expense categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryUC.ListCategories(r.Context())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list categories", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryListResponse{Categories: categories})
}
