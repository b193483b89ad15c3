package usecase

import (
	"context"

	"github.com/hogar/gastos/internal/domain"
)

// MemberUseCase serves the household roster.
type MemberUseCase struct {
	memberRepo MemberRepository
}

// NewMemberUseCase creates a new MemberUseCase.
func NewMemberUseCase(memberRepo MemberRepository) *MemberUseCase {
	return &MemberUseCase{memberRepo: memberRepo}
}

// ListMembers returns all household members ordered by id.
func (uc *MemberUseCase) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return uc.memberRepo.List(ctx)
}
