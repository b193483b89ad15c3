package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/usecase"
)

// MonthRepository implements usecase.MonthRepository on the monthly_shares
// table. The (year, month) row doubles as the lock that serializes writers
// of the same month.
type MonthRepository struct {
	pool *pgxpool.Pool
}

// NewMonthRepository creates a new MonthRepository.
func NewMonthRepository(pool *pgxpool.Pool) *MonthRepository {
	return &MonthRepository{pool: pool}
}

// Get retrieves the month's snapshot. A month with no row yet reads as an
// open month with no balances.
func (r *MonthRepository) Get(ctx context.Context, year int, month time.Month) (*domain.MonthSnapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT year, month, balances, is_settled, settled_at, updated_at
		 FROM monthly_shares WHERE year = $1 AND month = $2`, year, int(month))

	snap, err := scanMonthSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.MonthSnapshot{Year: year, Month: month}, nil
		}

		return nil, err
	}

	return snap, nil
}

// GetForUpdate locks the month's snapshot row for the duration of the
// transaction, creating it first if it does not exist yet.
func (r *MonthRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, year int, month time.Month) (*domain.MonthSnapshot, error) {
	pgxTx := tx.(*Tx).PgxTx()

	if _, err := pgxTx.Exec(ctx,
		`INSERT INTO monthly_shares (year, month, balances, is_settled, updated_at)
		 VALUES ($1, $2, '{}', FALSE, $3)
		 ON CONFLICT (year, month) DO NOTHING`,
		year, int(month), timeToPgTimestamptz(time.Now().UTC())); err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(ctx,
		`SELECT year, month, balances, is_settled, settled_at, updated_at
		 FROM monthly_shares WHERE year = $1 AND month = $2
		 FOR UPDATE`, year, int(month))

	return scanMonthSnapshot(row)
}

// UpdateBalances persists recomputed balances for an open month.
func (r *MonthRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, year int, month time.Month, balances map[int64]decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	data, err := balancesToJSON(balances)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx,
		`UPDATE monthly_shares SET balances = $3, updated_at = $4
		 WHERE year = $1 AND month = $2`,
		year, int(month), data, timeToPgTimestamptz(updatedAt))

	return err
}

// Settle freezes the month with the given balances.
func (r *MonthRepository) Settle(ctx context.Context, tx usecase.Transaction, year int, month time.Month, balances map[int64]decimal.Decimal, settledAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	data, err := balancesToJSON(balances)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx,
		`UPDATE monthly_shares
		 SET balances = $3, is_settled = TRUE, settled_at = $4, updated_at = $4
		 WHERE year = $1 AND month = $2`,
		year, int(month), data, timeToPgTimestamptz(settledAt))

	return err
}

func scanMonthSnapshot(row pgx.Row) (*domain.MonthSnapshot, error) {
	var (
		snap      domain.MonthSnapshot
		month     int
		data      []byte
		settledAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&snap.Year, &month, &data, &snap.IsSettled, &settledAt, &updatedAt); err != nil {
		return nil, err
	}

	balances, err := balancesFromJSON(data)
	if err != nil {
		return nil, err
	}

	snap.Month = time.Month(month)
	snap.Balances = balances
	snap.UpdatedAt = updatedAt.Time
	if settledAt.Valid {
		snap.SettledAt = &settledAt.Time
	}

	return &snap, nil
}
