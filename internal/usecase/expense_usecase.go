package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/infrastructure/metrics"
)

// ExpenseUseCase handles expense mutations. Every mutation runs inside a
// transaction that locks the target month's snapshot row, so operations on
// the same (year, month) are serialized.
type ExpenseUseCase struct {
	txManager   TransactionManager
	memberRepo  MemberRepository
	expenseRepo ExpenseRepository
	monthRepo   MonthRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	cache       Cache
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewExpenseUseCase creates a new ExpenseUseCase. metrics may be nil.
func NewExpenseUseCase(
	txManager TransactionManager,
	memberRepo MemberRepository,
	expenseRepo ExpenseRepository,
	monthRepo MonthRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	retrier Retrier,
	metrics *metrics.Metrics,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
		monthRepo:   monthRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		cache:       cache,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// CreateExpenseInput represents input for creating or updating an expense.
type CreateExpenseInput struct {
	Description  string
	Amount       decimal.Decimal
	Date         time.Time
	Category     string
	PayerID      int64
	PaymentType  domain.PaymentType
	Installments int
	Split        domain.SplitStrategy
}

func (in CreateExpenseInput) validate() error {
	if err := domain.ValidateDescription(in.Description); err != nil {
		return err
	}

	if err := domain.ValidateCategory(in.Category); err != nil {
		return err
	}

	if err := domain.ValidateAmount(in.Amount); err != nil {
		return err
	}

	return domain.ValidateInstallments(in.PaymentType, in.Installments)
}

func (in CreateExpenseInput) toExpense() *domain.Expense {
	return &domain.Expense{
		Description:  in.Description,
		Amount:       in.Amount,
		Date:         in.Date,
		Category:     in.Category,
		PayerID:      in.PayerID,
		PaymentType:  in.PaymentType,
		Installments: in.Installments,
		Split:        in.Split,
	}
}

// CreateExpense expands the expense into its installment chain, persists it
// and recomputes the month's balances. It returns the first installment.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	year, month := input.Date.Year(), input.Date.Month()

	var chain []*domain.Expense

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		ledger, err := uc.loadLedgerForUpdate(ctx, tx, year, month)
		if err != nil {
			return err
		}

		c, err := ledger.InsertExpense(input.toExpense())
		if err != nil {
			return err
		}

		if err := uc.expenseRepo.CreateChain(ctx, tx, c); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.monthRepo.UpdateBalances(ctx, tx, year, month, ledger.Balances(), now); err != nil {
			return err
		}

		root := c[0]
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   strconv.FormatInt(root.ID, 10),
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseCreated,
			Payload: domain.EventPayload(domain.ExpenseCreatedEvent{
				ExpenseID:    root.ID,
				Description:  root.Description,
				Amount:       input.Amount.String(),
				Date:         root.Date.Format("2006-01-02"),
				PayerID:      root.PayerID,
				Installments: root.Installments,
			}),
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		chain = c

		return nil
	})
	if err != nil {
		uc.countError("create")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesCreated.Inc()
		uc.metrics.ExpenseAmount.Observe(input.Amount.InexactFloat64())
	}

	uc.invalidateBalanceCache(ctx, chain)

	return chain[0], nil
}

// UpdateExpense re-expands the whole chain rooted at id from the new data
// and recomputes the month's balances. Only the first installment of a
// chain may be targeted.
func (uc *ExpenseUseCase) UpdateExpense(ctx context.Context, id int64, input CreateExpenseInput) (*domain.Expense, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !existing.IsChainRoot() {
		return nil, domain.ErrInstallmentNotEditable
	}

	oldChain, err := uc.expenseRepo.ListChain(ctx, id)
	if err != nil {
		return nil, err
	}

	year, month := existing.Date.Year(), existing.Date.Month()

	var chain []*domain.Expense

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		ledger, err := uc.loadLedgerForUpdate(ctx, tx, year, month)
		if err != nil {
			return err
		}

		c, err := ledger.UpdateExpense(id, input.toExpense())
		if err != nil {
			return err
		}

		if err := uc.expenseRepo.ReplaceChain(ctx, tx, c); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.monthRepo.UpdateBalances(ctx, tx, year, month, ledger.Balances(), now); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   strconv.FormatInt(id, 10),
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseUpdated,
			Payload: domain.EventPayload(domain.ExpenseUpdatedEvent{
				ExpenseID:    id,
				Description:  input.Description,
				Amount:       input.Amount.String(),
				Installments: input.Installments,
			}),
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		chain = c

		return nil
	})
	if err != nil {
		uc.countError("update")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesUpdated.Inc()
	}

	uc.invalidateBalanceCache(ctx, oldChain, chain)

	return chain[0], nil
}

// DeleteExpense removes the whole chain rooted at id and recomputes the
// month's balances. Only the first installment of a chain may be targeted.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, id int64) error {
	existing, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !existing.IsChainRoot() {
		return domain.ErrInstallmentNotEditable
	}

	oldChain, err := uc.expenseRepo.ListChain(ctx, id)
	if err != nil {
		return err
	}

	year, month := existing.Date.Year(), existing.Date.Month()

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		ledger, err := uc.loadLedgerForUpdate(ctx, tx, year, month)
		if err != nil {
			return err
		}

		if err := ledger.DeleteExpense(id); err != nil {
			return err
		}

		if err := uc.expenseRepo.DeleteChain(ctx, tx, id); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.monthRepo.UpdateBalances(ctx, tx, year, month, ledger.Balances(), now); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   strconv.FormatInt(id, 10),
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseDeleted,
			Payload:       domain.EventPayload(domain.ExpenseDeletedEvent{ExpenseID: id}),
			CreatedAt:     now,
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		uc.countError("delete")
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesDeleted.Inc()
	}

	uc.invalidateBalanceCache(ctx, oldChain)

	return nil
}

// GetExpense retrieves one stored expense record by id.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id int64) (*domain.Expense, error) {
	return uc.expenseRepo.GetByID(ctx, id)
}

// ListExpenses retrieves the expense records dated inside the given month,
// later installments of earlier chains included.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error) {
	if err := domain.ValidateYearMonth(year, int(month)); err != nil {
		return nil, err
	}

	return uc.expenseRepo.ListByMonth(ctx, year, month)
}

func (uc *ExpenseUseCase) loadLedgerForUpdate(ctx context.Context, tx Transaction, year int, month time.Month) (*domain.MonthLedger, error) {
	snap, err := uc.monthRepo.GetForUpdate(ctx, tx, year, month)
	if err != nil {
		return nil, err
	}

	members, err := uc.memberRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := uc.expenseRepo.ListByMonthForUpdate(ctx, tx, year, month)
	if err != nil {
		return nil, err
	}

	return domain.LoadMonthLedger(year, month, members, stored, snap.Balances, snap.IsSettled)
}

func (uc *ExpenseUseCase) countError(operation string) {
	if uc.metrics != nil {
		uc.metrics.ExpenseErrors.WithLabelValues(operation).Inc()
	}
}

// invalidateBalanceCache drops the cached balance snapshot of every month
// touched by the given chains. Later installments land in later months, so
// a single mutation can invalidate several snapshots.
func (uc *ExpenseUseCase) invalidateBalanceCache(ctx context.Context, chains ...[]*domain.Expense) {
	if uc.cache == nil {
		return
	}

	seen := make(map[string]bool)
	for _, chain := range chains {
		for _, e := range chain {
			key := balanceCacheKey(e.Date.Year(), e.Date.Month())
			if !seen[key] {
				seen[key] = true
				_ = uc.cache.Delete(ctx, key)
			}
		}
	}
}
