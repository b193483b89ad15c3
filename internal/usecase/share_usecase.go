package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/infrastructure/metrics"
)

// MonthlyBalance is the full view of one month: its expenses, the net
// position of every member and the settlement flag.
type MonthlyBalance struct {
	Year      int                       `json:"year"`
	Month     time.Month                `json:"month"`
	Expenses  []*domain.Expense         `json:"expenses"`
	Balances  map[int64]decimal.Decimal `json:"balances"`
	IsSettled bool                      `json:"isSettled"`
}

// ShareUseCase serves monthly balance reads and the settle/recalculate
// lifecycle.
type ShareUseCase struct {
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

// NewShareUseCase creates a new ShareUseCase. metrics may be nil.
func NewShareUseCase(
	txManager TransactionManager,
	memberRepo MemberRepository,
	expenseRepo ExpenseRepository,
	monthRepo MonthRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	retrier Retrier,
	metrics *metrics.Metrics,
) *ShareUseCase {
	return &ShareUseCase{
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

// GetMonthlyBalance returns the stored view of a month. Balances are read
// as persisted, never recomputed here. Results are cached until the next
// mutation on the month.
func (uc *ShareUseCase) GetMonthlyBalance(ctx context.Context, year int, month time.Month) (*MonthlyBalance, error) {
	if err := domain.ValidateYearMonth(year, int(month)); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceReads.Inc()
	}

	key := balanceCacheKey(year, month)

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, key); err == nil && len(data) > 0 {
			var cached MonthlyBalance
			if err := json.Unmarshal(data, &cached); err == nil {
				if uc.metrics != nil {
					uc.metrics.BalanceCacheHits.Inc()
				}

				return &cached, nil
			}
		}
	}

	members, err := uc.memberRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.ListByMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	snap, err := uc.monthRepo.Get(ctx, year, month)
	if err != nil {
		return nil, err
	}

	// Members with no stored position show up as zero.
	balances := make(map[int64]decimal.Decimal, len(members))
	for _, m := range members {
		balances[m.ID] = decimal.Zero
	}
	for id, b := range snap.Balances {
		balances[id] = b
	}

	result := &MonthlyBalance{
		Year:      year,
		Month:     month,
		Expenses:  expenses,
		Balances:  balances,
		IsSettled: snap.IsSettled,
	}

	if uc.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = uc.cache.Set(ctx, key, data, BalanceCacheTTL)
		}
	}

	return result, nil
}

// Recalculate recomputes the month's balances from its stored expenses and
// persists them. It fails on a settled month.
func (uc *ShareUseCase) Recalculate(ctx context.Context, year int, month time.Month) (*MonthlyBalance, error) {
	if err := domain.ValidateYearMonth(year, int(month)); err != nil {
		return nil, err
	}

	var result *MonthlyBalance

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

		balances, err := ledger.Recalculate()
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.monthRepo.UpdateBalances(ctx, tx, year, month, balances, now); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   monthAggregateID(year, month),
			AggregateType: domain.AggregateTypeMonth,
			EventType:     domain.EventTypeMonthRecalculated,
			Payload: domain.EventPayload(domain.MonthRecalculatedEvent{
				Year:  year,
				Month: int(month),
			}),
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &MonthlyBalance{
			Year:      year,
			Month:     month,
			Expenses:  ledger.Expenses(),
			Balances:  balances,
			IsSettled: false,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MonthsRecalculated.Inc()
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balanceCacheKey(year, month))
	}

	return result, nil
}

// Settle freezes the month with its balances exactly as stored. Settling
// never recomputes; callers who want fresh numbers recalculate first.
func (uc *ShareUseCase) Settle(ctx context.Context, year int, month time.Month) (*MonthlyBalance, error) {
	if err := domain.ValidateYearMonth(year, int(month)); err != nil {
		return nil, err
	}

	var result *MonthlyBalance

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

		if err := ledger.Settle(); err != nil {
			return err
		}

		now := time.Now().UTC()
		balances := ledger.Balances()
		if err := uc.monthRepo.Settle(ctx, tx, year, month, balances, now); err != nil {
			return err
		}

		settled := make(map[string]string, len(balances))
		for id, b := range balances {
			settled[strconv.FormatInt(id, 10)] = b.String()
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   monthAggregateID(year, month),
			AggregateType: domain.AggregateTypeMonth,
			EventType:     domain.EventTypeMonthSettled,
			Payload: domain.EventPayload(domain.MonthSettledEvent{
				Year:     year,
				Month:    int(month),
				Balances: settled,
			}),
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &MonthlyBalance{
			Year:      year,
			Month:     month,
			Expenses:  ledger.Expenses(),
			Balances:  balances,
			IsSettled: true,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MonthsSettled.Inc()
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balanceCacheKey(year, month))
	}

	return result, nil
}

func (uc *ShareUseCase) loadLedgerForUpdate(ctx context.Context, tx Transaction, year int, month time.Month) (*domain.MonthLedger, error) {
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

func balanceCacheKey(year int, month time.Month) string {
	return fmt.Sprintf("shares:%04d-%02d", year, int(month))
}

func monthAggregateID(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
