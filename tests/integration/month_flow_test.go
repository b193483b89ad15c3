package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	adaptershttp "github.com/hogar/gastos/internal/adapter/http"
	"github.com/hogar/gastos/internal/adapter/http/dto"
	"github.com/hogar/gastos/internal/adapter/http/handler"
	postgresrepo "github.com/hogar/gastos/internal/adapter/repository/postgres"
	redisrepo "github.com/hogar/gastos/internal/adapter/repository/redis"
	"github.com/hogar/gastos/internal/usecase"
	"github.com/hogar/gastos/tests/testutil"
)

func newTestRouter(t *testing.T, testDB *testutil.TestDB) http.Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	pool := testDB.Pool
	txManager := postgresrepo.NewTxManager(pool)
	memberRepo := postgresrepo.NewMemberRepository(pool)
	categoryRepo := postgresrepo.NewCategoryRepository(pool)
	expenseRepo := postgresrepo.NewExpenseRepository(pool)
	monthRepo := postgresrepo.NewMonthRepository(pool)
	outboxRepo := postgresrepo.NewOutboxRepository(pool)
	cache := redisrepo.NewCache(redisClient)
	idGen := postgresrepo.NewULIDGenerator()
	retrier := postgresrepo.NewRetrier(zerolog.Nop())

	expenseUC := usecase.NewExpenseUseCase(txManager, memberRepo, expenseRepo, monthRepo, outboxRepo, idGen, cache, retrier, nil)
	shareUC := usecase.NewShareUseCase(txManager, memberRepo, expenseRepo, monthRepo, outboxRepo, idGen, cache, retrier, nil)

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		ExpenseHandler:   handler.NewExpenseHandler(expenseUC),
		ShareHandler:     handler.NewShareHandler(shareUC),
		MemberHandler:    handler.NewMemberHandler(usecase.NewMemberUseCase(memberRepo)),
		CategoryHandler:  handler.NewCategoryHandler(usecase.NewCategoryUseCase(categoryRepo)),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: redisrepo.NewIdempotencyStore(redisClient),
	})
}

func postExpense(t *testing.T, router http.Handler, req dto.CreateExpenseRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httpReq)

	return rec
}

func getShares(t *testing.T, router http.Handler, path string) dto.MonthlyBalanceResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
	}

	var resp dto.MonthlyBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return resp
}

func TestMonthLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	members := testDB.SeedMembers(ctx, "Ana", "Bruno")
	router := newTestRouter(t, testDB)

	// Create a debit expense paid by the first member
	rec := postExpense(t, router, dto.CreateExpenseRequest{
		Description: "Groceries",
		Amount:      "90.00",
		Date:        "2025-04-15",
		Category:    "food",
		PayerID:     members[0].ID,
		PaymentType: "debit",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// The payer is owed half, the other member owes half
	shares := getShares(t, router, "/api/v1/shares/2025/4")
	if shares.Balances[members[0].ID] != "45.00" {
		t.Fatalf("expected 45.00 for payer, got %s", shares.Balances[members[0].ID])
	}
	if shares.Balances[members[1].ID] != "-45.00" {
		t.Fatalf("expected -45.00 for other member, got %s", shares.Balances[members[1].ID])
	}

	// Settle the month
	settleRec := httptest.NewRecorder()
	router.ServeHTTP(settleRec, httptest.NewRequest(http.MethodPost, "/api/v1/shares/2025/4/settle", nil))
	if settleRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", settleRec.Code, settleRec.Body.String())
	}

	// A settled month rejects new expenses
	rec = postExpense(t, router, dto.CreateExpenseRequest{
		Description: "Late dinner",
		Amount:      "30.00",
		Date:        "2025-04-28",
		Category:    "food",
		PayerID:     members[1].ID,
		PaymentType: "debit",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for settled month, got %d", rec.Code)
	}

	// Settling twice is rejected too
	settleRec = httptest.NewRecorder()
	router.ServeHTTP(settleRec, httptest.NewRequest(http.MethodPost, "/api/v1/shares/2025/4/settle", nil))
	if settleRec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second settle, got %d", settleRec.Code)
	}
}

func TestInstallmentsAcrossMonths(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	members := testDB.SeedMembers(ctx, "Ana", "Bruno")
	router := newTestRouter(t, testDB)

	// A credit purchase in three installments starting in March
	rec := postExpense(t, router, dto.CreateExpenseRequest{
		Description:  "Headphones",
		Amount:       "100.00",
		Date:         "2025-03-10",
		Category:     "electronics",
		PayerID:      members[0].ID,
		PaymentType:  "credit",
		Installments: 3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created dto.ExpenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	// First installment absorbs the rounding remainder
	if created.Amount != "33.34" {
		t.Fatalf("expected first installment 33.34, got %s", created.Amount)
	}

	// Each month sees exactly one installment
	march := getShares(t, router, "/api/v1/shares/2025/3")
	if len(march.Expenses) != 1 {
		t.Fatalf("expected 1 expense in March, got %d", len(march.Expenses))
	}
	if march.Balances[members[0].ID] != "16.67" {
		t.Fatalf("expected 16.67 for payer in March, got %s", march.Balances[members[0].ID])
	}

	april := getShares(t, router, "/api/v1/shares/2025/4")
	if len(april.Expenses) != 1 {
		t.Fatalf("expected 1 expense in April, got %d", len(april.Expenses))
	}
	if april.Expenses[0].InstallmentNo != 2 {
		t.Fatalf("expected installment 2 in April, got %d", april.Expenses[0].InstallmentNo)
	}

	// Later months store no balances until they are recalculated
	if april.Balances[members[0].ID] != "0.00" {
		t.Fatalf("expected 0.00 before recalculation, got %s", april.Balances[members[0].ID])
	}

	recalcRec := httptest.NewRecorder()
	router.ServeHTTP(recalcRec, httptest.NewRequest(http.MethodPost, "/api/v1/shares/2025/5/recalculate", nil))
	if recalcRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recalcRec.Code, recalcRec.Body.String())
	}

	may := getShares(t, router, "/api/v1/shares/2025/5")
	if may.Balances[members[1].ID] != "-16.66" {
		t.Fatalf("expected -16.66 for other member in May, got %s", may.Balances[members[1].ID])
	}
}
