package usecase

import "context"

// CategoryUseCase serves the expense category catalog.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// ListCategories returns all known categories ordered by name.
func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]string, error) {
	return uc.categoryRepo.List(ctx)
}
