package handler

import (
	"context"
	"net/http"

	"github.com/hogar/gastos/internal/adapter/http/dto"
	"github.com/hogar/gastos/internal/domain"
)

// MemberService is the use case surface the member handler depends on.
type MemberService interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
}

// MemberHandler handles member-related HTTP requests.
type MemberHandler struct {
	memberUC MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberUC MemberService) *MemberHandler {
	return &MemberHandler{memberUC: memberUC}
}

// List returns all household members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberUC.ListMembers(r.Context())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list members", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MemberResponsesFromDomain(members))
}
