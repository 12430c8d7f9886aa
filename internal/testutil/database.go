// Package testutil provides shared test helpers for payfilter packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/Veraticus/payfilter/internal/storage"
)

// TestDB is a migrated in-memory SQLite database.
type TestDB struct {
	Storage  service.Storage
	t        *testing.T
	Payments []model.Payment
}

// SetupTestDB creates a migrated in-memory database seeded with payments.
// The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, payments.Sample())
func SetupTestDB(t *testing.T, seed []model.Payment) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Payments: seed})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Payments       []model.Payment
	Filters        []model.SavedFilter
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	db, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := db.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if len(opts.Payments) > 0 {
		if _, err := db.SavePayments(ctx, opts.Payments); err != nil {
			t.Fatalf("failed to seed payments: %v", err)
		}
	}

	for _, f := range opts.Filters {
		if err := db.AppendFilter(ctx, f); err != nil {
			t.Fatalf("failed to seed saved filter %q: %v", f.ID, err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, db); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage:  db,
		Payments: opts.Payments,
		t:        t,
	}
}

// MustCount returns the number of stored payments or fails the test.
func (db *TestDB) MustCount() int {
	db.t.Helper()
	n, err := db.Storage.CountPayments(context.Background())
	if err != nil {
		db.t.Fatalf("failed to count payments: %v", err)
	}
	return n
}
