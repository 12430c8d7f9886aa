package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/Veraticus/payfilter/internal/testutil/storetest"
)

func TestSQLiteStorage_SavedFilterStore(t *testing.T) {
	storetest.RunSavedFilterStore(t, func(t *testing.T) service.SavedFilterStore {
		store, cleanup := createTestStorage(t)
		t.Cleanup(cleanup)
		return store
	})
}

func TestAppendFilter_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	noID := storetest.Entry("", "No id")
	noName := storetest.Entry("x", "")
	noTime := storetest.Entry("y", "No time")
	noTime.CreatedAt = time.Time{}

	for _, f := range []model.SavedFilter{noID, noName, noTime} {
		if err := store.AppendFilter(ctx, f); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("AppendFilter(%q) error = %v, want ErrInvalidFilter", f.Name, err)
		}
	}
}

func TestGetFilter_CorruptSnapshot(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO saved_filters (id, name, filters, created_at)
		VALUES ('bad', 'Broken', '{not json', '2024-03-22T12:00:00.000000000Z')
	`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := store.GetFilter(ctx, "bad"); !errors.Is(err, common.ErrDatabaseCorrupted) {
		t.Errorf("expected ErrDatabaseCorrupted, got %v", err)
	}
}
