package storage

import (
	"context"
	"testing"
)

func TestMigrate_ReachesExpectedVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("version = %d, want %d", version, ExpectedSchemaVersion)
	}

	// Running again is a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	for _, name := range []string{"idx_payments_date", "idx_payments_status", "idx_payments_method"} {
		var count int
		err := store.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='index' AND name=?
		`, name).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check index %s: %v", name, err)
		}
		if count != 1 {
			t.Errorf("index %s was not created", name)
		}
	}
}

func TestMigrate_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
}

func TestMigrations_AreOrdered(t *testing.T) {
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("migration at index %d has version %d", i, m.Version)
		}
		if m.Description == "" {
			t.Errorf("migration %d has no description", m.Version)
		}
	}
	if migrations[len(migrations)-1].Version != ExpectedSchemaVersion {
		t.Errorf("last migration is not ExpectedSchemaVersion")
	}
}
