package savedfilter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the keys written by RedisStore.
const DefaultRedisPrefix = "payfilter:"

// RedisStore keeps saved filters in Redis so several sessions can share them.
// Append order lives in a list; snapshots are JSON values in a hash keyed by id.
type RedisStore struct {
	client   redis.UniversalClient
	orderKey string
	dataKey  string
}

// NewRedisStore creates a store using client. An empty prefix uses DefaultRedisPrefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{
		client:   client,
		orderKey: prefix + "saved_filters:order",
		dataKey:  prefix + "saved_filters:data",
	}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// AppendFilter adds f to the end of the list.
func (s *RedisStore) AppendFilter(ctx context.Context, f model.SavedFilter) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode saved filter: %w", err)
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, s.dataKey, f.ID).Result()
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("saved filter %s: %w", f.ID, common.ErrDuplicateEntry)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.dataKey, f.ID, data)
			pipe.RPush(ctx, s.orderKey, f.ID)
			return nil
		})
		return err
	}, s.dataKey)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			return err
		}
		return fmt.Errorf("failed to store saved filter: %w", err)
	}
	return nil
}

// ListFilters returns all saved filters in append order.
func (s *RedisStore) ListFilters(ctx context.Context) ([]model.SavedFilter, error) {
	ids, err := s.client.LRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read saved filter order: %w", err)
	}
	if len(ids) == 0 {
		return []model.SavedFilter{}, nil
	}

	values, err := s.client.HMGet(ctx, s.dataKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read saved filters: %w", err)
	}

	filters := make([]model.SavedFilter, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Deleted between the two reads.
			continue
		}
		f, err := decodeSavedFilter(raw)
		if err != nil {
			return nil, fmt.Errorf("saved filter %s: %w", ids[i], err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// GetFilter returns the saved filter with the given id.
func (s *RedisStore) GetFilter(ctx context.Context, id string) (*model.SavedFilter, error) {
	raw, err := s.client.HGet(ctx, s.dataKey, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read saved filter: %w", err)
	}

	f, err := decodeSavedFilter(raw)
	if err != nil {
		return nil, fmt.Errorf("saved filter %s: %w", id, err)
	}
	return &f, nil
}

// DeleteFilter removes the saved filter with the given id if present.
func (s *RedisStore) DeleteFilter(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, s.orderKey, 0, id)
		pipe.HDel(ctx, s.dataKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete saved filter: %w", err)
	}
	return nil
}

func decodeSavedFilter(raw string) (model.SavedFilter, error) {
	var f model.SavedFilter
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return model.SavedFilter{}, fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
	}
	return f, nil
}
