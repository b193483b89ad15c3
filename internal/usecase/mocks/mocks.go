package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/usecase"
)

// MockMemberRepository is a mock implementation of MemberRepository.
type MockMemberRepository struct {
	Members []domain.Member

	ListFunc func(ctx context.Context) ([]domain.Member, error)
}

func NewMockMemberRepository(members ...domain.Member) *MockMemberRepository {
	return &MockMemberRepository{Members: members}
}

func (m *MockMemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return m.Members, nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	Categories []string

	ListFunc func(ctx context.Context) ([]string, error)
}

func NewMockCategoryRepository(categories ...string) *MockCategoryRepository {
	return &MockCategoryRepository{Categories: categories}
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return m.Categories, nil
}

// MockExpenseRepository is an in-memory mock implementation of
// ExpenseRepository. The default behavior mimics the persistence contract:
// CreateChain assigns sequential ids and links later installments to the
// first one.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[int64]*domain.Expense
	nextID   int64

	GetByIDFunc              func(ctx context.Context, id int64) (*domain.Expense, error)
	ListChainFunc            func(ctx context.Context, rootID int64) ([]*domain.Expense, error)
	ListByMonthFunc          func(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error)
	ListByMonthForUpdateFunc func(ctx context.Context, tx usecase.Transaction, year int, month time.Month) ([]*domain.Expense, error)
	CreateChainFunc          func(ctx context.Context, tx usecase.Transaction, chain []*domain.Expense) error
	ReplaceChainFunc         func(ctx context.Context, tx usecase.Transaction, chain []*domain.Expense) error
	DeleteChainFunc          func(ctx context.Context, tx usecase.Transaction, rootID int64) error
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		expenses: make(map[int64]*domain.Expense),
		nextID:   1,
	}
}

// Seed stores an expense as-is, without touching ids.
func (m *MockExpenseRepository) Seed(expenses ...*domain.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range expenses {
		m.expenses[e.ID] = e
		if e.ID >= m.nextID {
			m.nextID = e.ID + 1
		}
	}
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) ListChain(ctx context.Context, rootID int64) ([]*domain.Expense, error) {
	if m.ListChainFunc != nil {
		return m.ListChainFunc(ctx, rootID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var chain []*domain.Expense
	for _, e := range m.expenses {
		if e.ChainID() == rootID {
			chain = append(chain, e)
		}
	}
	sort.Slice(chain, func(i, j int) bool { return chain[i].InstallmentNo < chain[j].InstallmentNo })
	return chain, nil
}

func (m *MockExpenseRepository) ListByMonth(ctx context.Context, year int, month time.Month) ([]*domain.Expense, error) {
	if m.ListByMonthFunc != nil {
		return m.ListByMonthFunc(ctx, year, month)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Expense
	for _, e := range m.expenses {
		if e.Date.Year() == year && e.Date.Month() == month {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockExpenseRepository) ListByMonthForUpdate(ctx context.Context, tx usecase.Transaction, year int, month time.Month) ([]*domain.Expense, error) {
	if m.ListByMonthForUpdateFunc != nil {
		return m.ListByMonthForUpdateFunc(ctx, tx, year, month)
	}
	return m.ListByMonth(ctx, year, month)
}

func (m *MockExpenseRepository) CreateChain(ctx context.Context, tx usecase.Transaction, chain []*domain.Expense) error {
	if m.CreateChainFunc != nil {
		return m.CreateChainFunc(ctx, tx, chain)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	root := chain[0]
	root.ID = m.nextID
	m.nextID++
	m.expenses[root.ID] = root
	for _, e := range chain[1:] {
		e.ID = m.nextID
		m.nextID++
		parentID := root.ID
		e.ParentExpenseID = &parentID
		m.expenses[e.ID] = e
	}
	return nil
}

func (m *MockExpenseRepository) ReplaceChain(ctx context.Context, tx usecase.Transaction, chain []*domain.Expense) error {
	if m.ReplaceChainFunc != nil {
		return m.ReplaceChainFunc(ctx, tx, chain)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	root := chain[0]
	for id, e := range m.expenses {
		if e.ParentExpenseID != nil && *e.ParentExpenseID == root.ID {
			delete(m.expenses, id)
		}
	}
	m.expenses[root.ID] = root
	for _, e := range chain[1:] {
		e.ID = m.nextID
		m.nextID++
		parentID := root.ID
		e.ParentExpenseID = &parentID
		m.expenses[e.ID] = e
	}
	return nil
}

func (m *MockExpenseRepository) DeleteChain(ctx context.Context, tx usecase.Transaction, rootID int64) error {
	if m.DeleteChainFunc != nil {
		return m.DeleteChainFunc(ctx, tx, rootID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.expenses {
		if e.ChainID() == rootID {
			delete(m.expenses, id)
		}
	}
	return nil
}

// MockMonthRepository is an in-memory mock implementation of
// MonthRepository.
type MockMonthRepository struct {
	mu     sync.RWMutex
	months map[string]*domain.MonthSnapshot

	GetFunc            func(ctx context.Context, year int, month time.Month) (*domain.MonthSnapshot, error)
	GetForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, year int, month time.Month) (*domain.MonthSnapshot, error)
	UpdateBalancesFunc func(ctx context.Context, tx usecase.Transaction, year int, month time.Month, balances map[int64]decimal.Decimal, updatedAt time.Time) error
	SettleFunc         func(ctx context.Context, tx usecase.Transaction, year int, month time.Month, balances map[int64]decimal.Decimal, settledAt time.Time) error
}

func NewMockMonthRepository() *MockMonthRepository {
	return &MockMonthRepository{
		months: make(map[string]*domain.MonthSnapshot),
	}
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// Seed stores a snapshot as-is.
func (m *MockMonthRepository) Seed(snap *domain.MonthSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.months[monthKey(snap.Year, snap.Month)] = snap
}

// Snapshot returns the stored snapshot, or nil if the month has no row.
func (m *MockMonthRepository) Snapshot(year int, month time.Month) *domain.MonthSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.months[monthKey(year, month)]
}

func (m *MockMonthRepository) Get(ctx context.Context, year int, month time.Month) (*domain.MonthSnapshot, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, year, month)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if snap, ok := m.months[monthKey(year, month)]; ok {
		return snap, nil
	}
	return &domain.MonthSnapshot{Year: year, Month: month}, nil
}

func (m *MockMonthRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, year int, month time.Month) (*domain.MonthSnapshot, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, year, month)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := monthKey(year, month)
	if snap, ok := m.months[key]; ok {
		return snap, nil
	}
	snap := &domain.MonthSnapshot{Year: year, Month: month}
	m.months[key] = snap
	return snap, nil
}

func (m *MockMonthRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, year int, month time.Month, balances map[int64]decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, tx, year, month, balances, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := monthKey(year, month)
	snap, ok := m.months[key]
	if !ok {
		snap = &domain.MonthSnapshot{Year: year, Month: month}
		m.months[key] = snap
	}
	snap.Balances = balances
	snap.UpdatedAt = updatedAt
	return nil
}

func (m *MockMonthRepository) Settle(ctx context.Context, tx usecase.Transaction, year int, month time.Month, balances map[int64]decimal.Decimal, settledAt time.Time) error {
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, tx, year, month, balances, settledAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := monthKey(year, month)
	snap, ok := m.months[key]
	if !ok {
		snap = &domain.MonthSnapshot{Year: year, Month: month}
		m.months[key] = snap
	}
	snap.Balances = balances
	snap.IsSettled = true
	snap.SettledAt = &settledAt
	snap.UpdatedAt = settledAt
	return nil
}

// MockOutboxRepository is an in-memory mock implementation of
// OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockRetrier is a mock implementation of Retrier that runs the operation
// exactly once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockCache is an in-memory mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is an in-memory mock implementation of
// IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
