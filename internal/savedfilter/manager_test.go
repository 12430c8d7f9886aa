package savedfilter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/filter"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 22, 12, 0, 0, 0, time.UTC)

func newTestManager(store service.SavedFilterStore) *Manager {
	n := 0
	return NewManager(store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("filter-%d", n)
		}),
	)
}

func activeState() model.FilterState {
	lower := decimal.RequireFromString("10")
	return model.FilterState{
		AmountRange: model.AmountRange{Min: &lower},
		Status:      []string{"Succeeded"},
	}
}

func TestManager_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(NewMemoryStore())
	state := activeState()

	saved, err := m.Save(ctx, "  Big wins  ", state)
	require.NoError(t, err)

	assert.Equal(t, "filter-1", saved.ID)
	assert.Equal(t, "Big wins", saved.Name)
	assert.Equal(t, fixedNow, saved.CreatedAt)
	assert.True(t, saved.Filters.Equal(state))

	loaded, err := m.Load(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(state))
}

func TestManager_SaveUsesUUIDByDefault(t *testing.T) {
	m := NewManager(NewMemoryStore())

	saved, err := m.Save(context.Background(), "Default ids", activeState())
	require.NoError(t, err)
	assert.Len(t, saved.ID, 36)
	assert.WithinDuration(t, time.Now(), saved.CreatedAt, time.Minute)
}

func TestManager_SaveRejections(t *testing.T) {
	tests := []struct {
		reason error
		name   string
		label  string
		state  model.FilterState
	}{
		{label: "empty name", name: "", state: activeState(), reason: ErrEmptyName},
		{label: "whitespace name", name: "   \t", state: activeState(), reason: ErrEmptyName},
		{label: "overlong name", name: strings.Repeat("x", 101), state: activeState(), reason: ErrNameTooLong},
		{label: "inactive filter", name: "Nothing", state: model.FilterState{}, reason: ErrNoActiveFilter},
		{label: "cleared filter", name: "Cleared", state: filter.ClearAll(activeState()), reason: ErrNoActiveFilter},
		{label: "empty selections", name: "Empty", state: model.FilterState{Status: []string{}}, reason: ErrNoActiveFilter},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			ctx := context.Background()
			m := newTestManager(NewMemoryStore())

			_, err := m.Save(ctx, tt.name, tt.state)
			assert.ErrorIs(t, err, ErrRejected)
			assert.ErrorIs(t, err, tt.reason)

			filters, err := m.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, filters, "rejected save must not create an entry")
		})
	}
}

func TestManager_NameAtLimitIsAccepted(t *testing.T) {
	m := newTestManager(NewMemoryStore())
	name := strings.Repeat("é", model.MaxSavedFilterNameLength)

	saved, err := m.Save(context.Background(), name, activeState())
	require.NoError(t, err)
	assert.Equal(t, name, saved.Name)
}

func TestManager_SnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(NewMemoryStore())
	live := activeState()

	saved, err := m.Save(ctx, "Snapshot", live)
	require.NoError(t, err)

	live.Status[0] = "Failed"
	*live.AmountRange.Min = decimal.RequireFromString("5000")

	loaded, err := m.Load(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(activeState()))

	loaded.Status[0] = "Pending"
	again, err := m.Load(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Succeeded"}, again.Status)
}

func TestManager_ListOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(NewMemoryStore())

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := m.Save(ctx, name, activeState())
		require.NoError(t, err)
	}

	require.NoError(t, m.Delete(ctx, "filter-2"))
	require.NoError(t, m.Delete(ctx, "unknown"))

	filters, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, filters, 2)
	assert.Equal(t, "First", filters[0].Name)
	assert.Equal(t, "Third", filters[1].Name)
}

func TestManager_LoadUnknown(t *testing.T) {
	m := newTestManager(NewMemoryStore())

	_, err := m.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

type failingStore struct {
	service.SavedFilterStore
	err error
}

func (f failingStore) AppendFilter(context.Context, model.SavedFilter) error { return f.err }
func (f failingStore) ListFilters(context.Context) ([]model.SavedFilter, error) {
	return nil, f.err
}
func (f failingStore) GetFilter(context.Context, string) (*model.SavedFilter, error) {
	return nil, f.err
}
func (f failingStore) DeleteFilter(context.Context, string) error { return f.err }

func TestManager_PropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	m := newTestManager(failingStore{err: boom})

	_, err := m.Save(ctx, "Name", activeState())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrRejected)

	_, err = m.List(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = m.Load(ctx, "x")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, m.Delete(ctx, "x"), boom)
}

func TestManager_WithRedisStore(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)
	m := newTestManager(store)

	saved, err := m.Save(ctx, "Shared", activeState())
	require.NoError(t, err)

	// A second manager over the same keys sees the entry.
	other := NewManager(store)
	loaded, err := other.Load(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(activeState()))
}
