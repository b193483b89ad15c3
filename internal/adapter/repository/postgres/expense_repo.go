package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/usecase"
)

const expenseColumns = `id, description, amount, expense_date, category, payer_id, payment_type,
	installments, installment_no, parent_expense_id, split_type, split_percentages, created_at, updated_at`

// ExpenseRepository implements usecase.ExpenseRepository. Installment
// chains are stored as one row per installment, later rows linked to the
// first through parent_expense_id.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// GetByID retrieves a single expense record by id.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)

	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	return e, nil
}

// ListChain retrieves the full installment chain rooted at rootID, ordered
// by installment number.
func (r *ExpenseRepository) ListChain(ctx context.Context, rootID int64) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE id = $1 OR parent_expense_id = $1
		 ORDER BY installment_no`, rootID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListByMonth retrieves all expense records dated inside the given month,
// ordered by id.
func (r *ExpenseRepository) ListByMonth(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error) {
	start, end := monthBounds(year, month)

	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE expense_date >= $1 AND expense_date < $2
		 ORDER BY id`, timeToPgDate(start), timeToPgDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListByMonthForUpdate retrieves the month's expense records with row locks
// held until the transaction ends.
func (r *ExpenseRepository) ListByMonthForUpdate(ctx context.Context, tx usecase.Transaction, year int, month time.Month) ([]*domain.Expense, error) {
	pgxTx := tx.(*Tx).PgxTx()
	start, end := monthBounds(year, month)

	rows, err := pgxTx.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE expense_date >= $1 AND expense_date < $2
		 ORDER BY id
		 FOR UPDATE`, timeToPgDate(start), timeToPgDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// CreateChain persists a new installment chain. The first record is
// inserted first so later ones can reference its assigned id.
func (r *ExpenseRepository) CreateChain(ctx context.Context, tx usecase.Transaction, chain []*domain.Expense) error {
	pgxTx := tx.(*Tx).PgxTx()
	now := time.Now().UTC()

	root := chain[0]
	root.CreatedAt = now
	root.UpdatedAt = now

	if err := insertExpense(ctx, pgxTx, root); err != nil {
		return err
	}

	for _, e := range chain[1:] {
		parentID := root.ID
		e.ParentExpenseID = &parentID
		e.CreatedAt = now
		e.UpdatedAt = now

		if err := insertExpense(ctx, pgxTx, e); err != nil {
			return err
		}
	}

	return nil
}

// ReplaceChain rewrites the chain rooted at chain[0].ID: the first record
// is updated in place, previously derived installments are removed and the
// new ones inserted.
func (r *ExpenseRepository) ReplaceChain(ctx context.Context, tx usecase.Transaction, chain []*domain.Expense) error {
	pgxTx := tx.(*Tx).PgxTx()
	now := time.Now().UTC()

	root := chain[0]
	root.UpdatedAt = now

	splitJSON, err := splitToStored(root.Split)
	if err != nil {
		return err
	}

	tag, err := pgxTx.Exec(ctx,
		`UPDATE expenses
		 SET description = $2, amount = $3, expense_date = $4, category = $5,
		     payer_id = $6, payment_type = $7, installments = $8,
		     split_type = $9, split_percentages = $10, updated_at = $11
		 WHERE id = $1`,
		root.ID, root.Description, decimalToNumeric(root.Amount), timeToPgDate(root.Date),
		root.Category, root.PayerID, string(root.PaymentType), root.Installments,
		string(root.Split.Type), splitJSON, timeToPgTimestamptz(now))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	if _, err := pgxTx.Exec(ctx,
		`DELETE FROM expenses WHERE parent_expense_id = $1`, root.ID); err != nil {
		return err
	}

	for _, e := range chain[1:] {
		parentID := root.ID
		e.ParentExpenseID = &parentID
		e.CreatedAt = now
		e.UpdatedAt = now

		if err := insertExpense(ctx, pgxTx, e); err != nil {
			return err
		}
	}

	return nil
}

// DeleteChain removes the chain rooted at rootID, derived installments
// included.
func (r *ExpenseRepository) DeleteChain(ctx context.Context, tx usecase.Transaction, rootID int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`DELETE FROM expenses WHERE id = $1 OR parent_expense_id = $1`, rootID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

func insertExpense(ctx context.Context, tx pgx.Tx, e *domain.Expense) error {
	splitJSON, err := splitToStored(e.Split)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx,
		`INSERT INTO expenses (description, amount, expense_date, category, payer_id,
		                       payment_type, installments, installment_no, parent_expense_id,
		                       split_type, split_percentages, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		e.Description, decimalToNumeric(e.Amount), timeToPgDate(e.Date), e.Category,
		e.PayerID, string(e.PaymentType), e.Installments, e.InstallmentNo,
		e.ParentExpenseID, string(e.Split.Type), splitJSON,
		timeToPgTimestamptz(e.CreatedAt), timeToPgTimestamptz(e.UpdatedAt)).Scan(&e.ID)
}

func scanExpenses(rows pgx.Rows) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e           domain.Expense
		amount      pgtype.Numeric
		date        pgtype.Date
		paymentType string
		splitType   string
		splitJSON   []byte
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &e.Description, &amount, &date, &e.Category, &e.PayerID,
		&paymentType, &e.Installments, &e.InstallmentNo, &e.ParentExpenseID,
		&splitType, &splitJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	split, err := splitFromStored(splitType, splitJSON)
	if err != nil {
		return nil, err
	}

	e.Amount = numericToDecimal(amount)
	e.Date = date.Time
	e.PaymentType = domain.PaymentType(paymentType)
	e.Split = split
	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return &e, nil
}

func splitToStored(s domain.SplitStrategy) ([]byte, error) {
	if s.Type != domain.SplitTypePercentage {
		return nil, nil
	}

	return json.Marshal(s.Percentages)
}

func splitFromStored(splitType string, data []byte) (domain.SplitStrategy, error) {
	switch domain.SplitType(splitType) {
	case domain.SplitTypeEqual:
		return domain.EqualSplit(), nil
	case domain.SplitTypePercentage:
		var percentages map[int64]decimal.Decimal
		if err := json.Unmarshal(data, &percentages); err != nil {
			return domain.SplitStrategy{}, err
		}
		return domain.PercentageSplit(percentages), nil
	default:
		return domain.SplitStrategy{}, domain.ErrInvalidSplitType
	}
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	return start, start.AddDate(0, 1, 0)
}
