package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hogar/gastos/internal/domain"
)

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// List retrieves all members ordered by id.
func (r *MemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, telephone, email FROM members ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Telephone, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
