package savedfilter

import (
	"context"
	"testing"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/Veraticus/payfilter/internal/testutil/storetest"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test:"), mr
}

func TestMemoryStore(t *testing.T) {
	storetest.RunSavedFilterStore(t, func(_ *testing.T) service.SavedFilterStore {
		return NewMemoryStore()
	})
}

func TestRedisStore(t *testing.T) {
	storetest.RunSavedFilterStore(t, func(t *testing.T) service.SavedFilterStore {
		store, _ := newTestRedisStore(t)
		return store
	})
}

func TestRedisStore_Keys(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	require.NoError(t, store.Ping(ctx))

	require.NoError(t, store.AppendFilter(ctx, storetest.Entry("a", "A")))

	order, err := mr.List("test:saved_filters:order")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, order)
	keys, err := mr.HKeys("test:saved_filters:data")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, "")

	require.NoError(t, store.AppendFilter(context.Background(), storetest.Entry("a", "A")))
	assert.True(t, mr.Exists(DefaultRedisPrefix+"saved_filters:order"))
}

func TestRedisStore_CorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	mr.HSet("test:saved_filters:data", "bad", "{not json")
	_, err := mr.Push("test:saved_filters:order", "bad")
	require.NoError(t, err)

	_, err = store.GetFilter(ctx, "bad")
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)

	_, err = store.ListFilters(ctx)
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
}

func TestRedisStore_Unreachable(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	mr.Close()

	assert.Error(t, store.Ping(ctx))
	assert.Error(t, store.AppendFilter(ctx, storetest.Entry("a", "A")))
	_, err := store.ListFilters(ctx)
	assert.Error(t, err)
}
