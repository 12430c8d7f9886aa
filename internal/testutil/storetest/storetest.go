// Package storetest runs the behavioral contract every
// service.SavedFilterStore implementation must satisfy.
//
//	func TestMemoryStore(t *testing.T) {
//		storetest.RunSavedFilterStore(t, func(t *testing.T) service.SavedFilterStore {
//			return savedfilter.NewMemoryStore()
//		})
//	}
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) service.SavedFilterStore

// Entry builds a saved filter with every dimension populated.
func Entry(id, name string) model.SavedFilter {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 21, 23, 59, 0, 0, time.UTC)
	lower := decimal.RequireFromString("10")
	upper := decimal.RequireFromString("100.5")

	return model.SavedFilter{
		ID:        id,
		Name:      name,
		CreatedAt: time.Date(2024, 3, 22, 12, 0, 0, 0, time.UTC),
		Filters: model.FilterState{
			DateRange:     model.DateRange{From: &from, To: &to},
			AmountRange:   model.AmountRange{Min: &lower, Max: &upper},
			Status:        []string{"Succeeded", "Refunded"},
			PaymentMethod: []string{"Card"},
		},
	}
}

// RunSavedFilterStore exercises append order, lookup, deletion and
// snapshot round-tripping against stores produced by newStore.
func RunSavedFilterStore(t *testing.T, newStore Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		store := newStore(t)
		filters, err := store.ListFilters(ctx)
		require.NoError(t, err)
		assert.Empty(t, filters)
	})

	t.Run("append preserves order", func(t *testing.T) {
		store := newStore(t)
		for i := range 3 {
			require.NoError(t, store.AppendFilter(ctx, Entry(fmt.Sprintf("id-%d", i), fmt.Sprintf("Filter %d", i))))
		}

		filters, err := store.ListFilters(ctx)
		require.NoError(t, err)
		require.Len(t, filters, 3)
		for i, f := range filters {
			assert.Equal(t, fmt.Sprintf("id-%d", i), f.ID)
		}
	})

	t.Run("snapshot round-trips", func(t *testing.T) {
		store := newStore(t)
		want := Entry("round-trip", "Everything")
		require.NoError(t, store.AppendFilter(ctx, want))

		got, err := store.GetFilter(ctx, "round-trip")
		require.NoError(t, err)
		assert.Equal(t, want.Name, got.Name)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, want.Filters.Equal(got.Filters), "got %+v", got.Filters)
	})

	t.Run("partial snapshot keeps nil bounds", func(t *testing.T) {
		store := newStore(t)
		entry := Entry("partial", "Failures")
		entry.Filters = model.FilterState{Status: []string{"Failed"}}
		require.NoError(t, store.AppendFilter(ctx, entry))

		got, err := store.GetFilter(ctx, "partial")
		require.NoError(t, err)
		assert.Nil(t, got.Filters.DateRange.From)
		assert.Nil(t, got.Filters.AmountRange.Max)
		assert.Empty(t, got.Filters.PaymentMethod)
		assert.Equal(t, []string{"Failed"}, got.Filters.Status)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetFilter(ctx, "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AppendFilter(ctx, Entry("dup", "First")))
		err := store.AppendFilter(ctx, Entry("dup", "Second"))
		assert.ErrorIs(t, err, common.ErrDuplicateEntry)

		filters, err := store.ListFilters(ctx)
		require.NoError(t, err)
		require.Len(t, filters, 1)
		assert.Equal(t, "First", filters[0].Name)
	})

	t.Run("delete removes only the named entry", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AppendFilter(ctx, Entry("a", "A")))
		require.NoError(t, store.AppendFilter(ctx, Entry("b", "B")))
		require.NoError(t, store.AppendFilter(ctx, Entry("c", "C")))

		require.NoError(t, store.DeleteFilter(ctx, "b"))

		filters, err := store.ListFilters(ctx)
		require.NoError(t, err)
		require.Len(t, filters, 2)
		assert.Equal(t, "a", filters[0].ID)
		assert.Equal(t, "c", filters[1].ID)

		_, err = store.GetFilter(ctx, "b")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("delete of unknown id is a no-op", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AppendFilter(ctx, Entry("a", "A")))

		require.NoError(t, store.DeleteFilter(ctx, "missing"))

		filters, err := store.ListFilters(ctx)
		require.NoError(t, err)
		assert.Len(t, filters, 1)
	})

	t.Run("stored snapshot is isolated from the caller", func(t *testing.T) {
		store := newStore(t)
		entry := Entry("iso", "Isolated")
		require.NoError(t, store.AppendFilter(ctx, entry))

		entry.Filters.Status[0] = "Failed"
		*entry.Filters.AmountRange.Min = decimal.RequireFromString("999")

		got, err := store.GetFilter(ctx, "iso")
		require.NoError(t, err)
		assert.Equal(t, "Succeeded", got.Filters.Status[0])
		assert.True(t, got.Filters.AmountRange.Min.Equal(decimal.RequireFromString("10")))
	})
}
