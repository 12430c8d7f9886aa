// Package savedfilter manages named snapshots of a FilterState.
//
// A Manager enforces the save gate (non-blank name of at most 100
// characters, at least one active dimension) and hands out deep copies so
// that the live filter can never alter a stored snapshot. Persistence is
// delegated to a service.SavedFilterStore: MemoryStore for a single session,
// RedisStore for a shared list, or the SQLite storage.
package savedfilter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/filter"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Manager implements save, list, load and delete over a store backend.
type Manager struct {
	store  service.SavedFilterStore
	clock  func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the creation timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) {
		m.newID = newID
	}
}

// WithLogger sets the logger used for store operations.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager backed by store.
func NewManager(store service.SavedFilterStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		clock:  time.Now,
		newID:  uuid.NewString,
		logger: common.Component("savedfilter"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save snapshots state under name. It returns an error wrapping ErrRejected
// when the name is blank or too long, or when no dimension is active.
func (m *Manager) Save(ctx context.Context, name string, state model.FilterState) (model.SavedFilter, error) {
	entry := model.SavedFilter{
		Name:    strings.TrimSpace(name),
		Filters: state.Clone(),
	}

	if err := checkSaveGate(&entry); err != nil {
		m.logger.Debug("save rejected", "name", name, "error", err)
		return model.SavedFilter{}, err
	}

	entry.ID = m.newID()
	entry.CreatedAt = m.clock()

	if err := m.store.AppendFilter(ctx, entry); err != nil {
		return model.SavedFilter{}, fmt.Errorf("failed to save filter %q: %w", entry.Name, err)
	}

	m.logger.Info("saved filter",
		"id", entry.ID,
		"name", entry.Name,
		"active_dimensions", filter.ActiveDimensionCount(entry.Filters))

	return entry.Clone(), nil
}

func checkSaveGate(entry *model.SavedFilter) error {
	if err := entry.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
			return fmt.Errorf("%w: %w", ErrRejected, ErrNameTooLong)
		}
		return fmt.Errorf("%w: %w", ErrRejected, ErrEmptyName)
	}
	if !filter.IsActive(entry.Filters) {
		return fmt.Errorf("%w: %w", ErrRejected, ErrNoActiveFilter)
	}
	return nil
}

// List returns every saved filter, oldest first.
func (m *Manager) List(ctx context.Context) ([]model.SavedFilter, error) {
	filters, err := m.store.ListFilters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved filters: %w", err)
	}
	out := make([]model.SavedFilter, 0, len(filters))
	for _, f := range filters {
		out = append(out, f.Clone())
	}
	return out, nil
}

// Get returns the saved filter with the given id.
func (m *Manager) Get(ctx context.Context, id string) (model.SavedFilter, error) {
	f, err := m.store.GetFilter(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return model.SavedFilter{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.SavedFilter{}, fmt.Errorf("failed to get saved filter %s: %w", id, err)
	}
	return f.Clone(), nil
}

// Load returns a deep copy of the snapshot stored under id.
func (m *Manager) Load(ctx context.Context, id string) (model.FilterState, error) {
	f, err := m.Get(ctx, id)
	if err != nil {
		return model.FilterState{}, err
	}
	return f.Filters, nil
}

// Delete removes the saved filter if present. Unknown ids are not an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.DeleteFilter(ctx, id); err != nil {
		return fmt.Errorf("failed to delete saved filter %s: %w", id, err)
	}
	m.logger.Debug("deleted saved filter", "id", id)
	return nil
}
