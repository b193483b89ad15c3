package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/hogar/gastos/internal/domain"
	"github.com/hogar/gastos/internal/infrastructure/postgres"
)

// TestDB provides isolated test database connections. Tests using it are
// skipped when DATABASE_URL is not set.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to the database named by DATABASE_URL and runs
// migrations. The calling test is skipped when no database is configured.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	migrationsPath := "migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		migrationsPath = "../../migrations"
	}

	if err := postgres.RunMigrations(zerolog.Nop(), dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	return &TestDB{Pool: pool, t: t}
}

// Cleanup closes the pool.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll empties every mutable table.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx,
		`TRUNCATE expenses, monthly_shares, outbox_events, members RESTART IDENTITY CASCADE`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SeedMembers inserts the given members and returns them with assigned ids.
func (db *TestDB) SeedMembers(ctx context.Context, names ...string) []domain.Member {
	db.t.Helper()

	members := make([]domain.Member, 0, len(names))
	for _, name := range names {
		var m domain.Member
		m.Name = name

		err := db.Pool.QueryRow(ctx,
			`INSERT INTO members (name) VALUES ($1) RETURNING id`, name).Scan(&m.ID)
		if err != nil {
			db.t.Fatalf("failed to seed member %s: %v", name, err)
		}

		members = append(members, m)
	}

	return members
}
