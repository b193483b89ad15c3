package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hogar/gastos/internal/domain"
)

// MemberRepository defines read access to the ledger's member set. Members
// are managed by the surrounding system; the engine only reads them.
type MemberRepository interface {
	List(ctx context.Context) ([]domain.Member, error)
}

// CategoryRepository defines read access to expense categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]string, error)
}

// ExpenseRepository defines data access for expense records.
type ExpenseRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Expense, error)
	ListChain(ctx context.Context, rootID int64) ([]*domain.Expense, error)
	ListByMonth(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error)
	ListByMonthForUpdate(ctx context.Context, tx Transaction, year int, month time.Month) ([]*domain.Expense, error)
	// CreateChain persists a new installment chain. It assigns ids and
	// links later installments to the first.
	CreateChain(ctx context.Context, tx Transaction, chain []*domain.Expense) error
	// ReplaceChain rewrites the chain rooted at chain[0].ID: the root row
	// is updated in place, prior derived installments are removed and the
	// new ones inserted.
	ReplaceChain(ctx context.Context, tx Transaction, chain []*domain.Expense) error
	DeleteChain(ctx context.Context, tx Transaction, rootID int64) error
}

// MonthRepository defines data access for monthly balance snapshots. The
// snapshot row doubles as the per-(year, month) mutual-exclusion scope.
type MonthRepository interface {
	Get(ctx context.Context, year int, month time.Month) (*domain.MonthSnapshot, error)
	// GetForUpdate locks the month row for the duration of the
	// transaction, creating it first if it does not exist yet.
	GetForUpdate(ctx context.Context, tx Transaction, year int, month time.Month) (*domain.MonthSnapshot, error)
	UpdateBalances(ctx context.Context, tx Transaction, year int, month time.Month, balances map[int64]decimal.Decimal, updatedAt time.Time) error
	Settle(ctx context.Context, tx Transaction, year int, month time.Month, balances map[int64]decimal.Decimal, settledAt time.Time) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique event ids.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
