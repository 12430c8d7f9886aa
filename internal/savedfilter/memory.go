package savedfilter

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
)

// MemoryStore keeps saved filters in process memory. It is safe for concurrent use.
type MemoryStore struct {
	filters []model.SavedFilter
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AppendFilter adds f to the end of the list.
func (s *MemoryStore) AppendFilter(_ context.Context, f model.SavedFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(f.ID) >= 0 {
		return fmt.Errorf("saved filter %s: %w", f.ID, common.ErrDuplicateEntry)
	}
	s.filters = append(s.filters, f.Clone())
	return nil
}

// ListFilters returns copies of all saved filters in append order.
func (s *MemoryStore) ListFilters(_ context.Context) ([]model.SavedFilter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SavedFilter, 0, len(s.filters))
	for _, f := range s.filters {
		out = append(out, f.Clone())
	}
	return out, nil
}

// GetFilter returns a copy of the saved filter with the given id.
func (s *MemoryStore) GetFilter(_ context.Context, id string) (*model.SavedFilter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, common.ErrNotFound
	}
	f := s.filters[i].Clone()
	return &f, nil
}

// DeleteFilter removes the saved filter with the given id if present.
func (s *MemoryStore) DeleteFilter(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.filters = slices.Delete(s.filters, i, i+1)
	}
	return nil
}

func (s *MemoryStore) indexOf(id string) int {
	return slices.IndexFunc(s.filters, func(f model.SavedFilter) bool {
		return f.ID == id
	})
}
