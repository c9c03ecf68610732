//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gimago/cyclenotify/internal/model"
	"github.com/gimago/cyclenotify/internal/testutil"
)

func TestIntegrationRepository_ListItems(t *testing.T) {
	ctx := context.Background()
	dsn := testutil.RequireEnv(t, "TEST_DATABASE_URL")

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	table := fmt.Sprintf("cycle_items_test_%d", time.Now().UnixNano())
	quoted, err := QuoteTable(table)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE %s (
			id bigserial PRIMARY KEY,
			user_id uuid NOT NULL,
			name text,
			start_date date,
			duration text,
			unit text
		)`, quoted)); err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+quoted)
	})

	owner := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	if _, err := pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (user_id, name, start_date, duration, unit) VALUES
			($1, 'Gym', '2025-01-31', '1', 'months'),
			($1, 'Broken', NULL, 'abc', 'weeks')`, quoted), owner); err != nil {
		t.Fatalf("insert: %v", err)
	}

	repo, err := New(ctx, dsn, table, time.UTC)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer repo.Close()

	items, err := repo.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	gym := items[0]
	if gym.UserID != owner || gym.Unit != model.UnitMonths || gym.Duration != 1 {
		t.Errorf("unexpected item %+v", gym)
	}
	if err := gym.Validate(); err != nil {
		t.Errorf("gym should validate: %v", err)
	}
	if err := items[1].Validate(); err == nil {
		t.Error("broken row should fail validation")
	}
}
