// Package session owns the live FilterState for one user and wires the
// filter controls, the predicate, the view models and the saved-filter
// manager together.
//
// Every update replaces the state by copy, so values returned from State or
// passed into setters are never aliased. A Session is not safe for
// concurrent use; the Manager behind it may be shared.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/filter"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/savedfilter"
	"github.com/Veraticus/payfilter/internal/viewmodel"
)

// Session is the orchestrator for a single filter UI.
type Session struct {
	saved    *savedfilter.Manager
	clock    func() time.Time
	location *time.Location
	logger   *slog.Logger
	state    model.FilterState
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the instant date presets are computed from.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithLocation sets the zone payment dates are displayed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		s.location = loc
	}
}

// WithInitialState starts the session from state instead of the empty filter.
func WithInitialState(state model.FilterState) Option {
	return func(s *Session) {
		s.state = state.Clone()
	}
}

// New creates a session backed by the given saved-filter manager.
func New(saved *savedfilter.Manager, opts ...Option) *Session {
	s := &Session{
		saved:  saved,
		clock:  time.Now,
		logger: common.Component("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current filter.
func (s *Session) State() model.FilterState {
	return s.state.Clone()
}

// Update replaces one dimension. See filter.UpdateDimension for the accepted value types.
func (s *Session) Update(dimension model.Dimension, value any) error {
	next, err := filter.UpdateDimension(s.state, dimension, value)
	if err != nil {
		return err
	}
	s.replace(next, "update", dimension.String())
	return nil
}

// SetDateRange replaces the date range.
func (s *Session) SetDateRange(r model.DateRange) {
	s.replace(filter.WithDateRange(s.state, r), "update", model.DimensionDateRange.String())
}

// SetAmountRange replaces the amount range.
func (s *Session) SetAmountRange(r model.AmountRange) {
	s.replace(filter.WithAmountRange(s.state, r), "update", model.DimensionAmountRange.String())
}

// SetStatus replaces the status selection.
func (s *Session) SetStatus(values []string) {
	s.replace(filter.WithStatus(s.state, values), "update", model.DimensionStatus.String())
}

// SetPaymentMethod replaces the payment-method selection.
func (s *Session) SetPaymentMethod(values []string) {
	s.replace(filter.WithPaymentMethod(s.state, values), "update", model.DimensionPaymentMethod.String())
}

// ToggleStatus adds or removes one status label.
func (s *Session) ToggleStatus(option string) {
	s.SetStatus(filter.ToggleOption(s.state.Status, option))
}

// TogglePaymentMethod adds or removes one payment-method label.
func (s *Session) TogglePaymentMethod(option string) {
	s.SetPaymentMethod(filter.ToggleOption(s.state.PaymentMethod, option))
}

// ApplyAmountPreset replaces the amount range with a preset.
func (s *Session) ApplyAmountPreset(p filter.AmountPreset) {
	s.SetAmountRange(p.Range())
}

// ApplyDatePreset replaces the date range with a preset ending now.
func (s *Session) ApplyDatePreset(p filter.DatePreset) {
	s.SetDateRange(p.Range(s.clock()))
}

// Clear resets every dimension.
func (s *Session) Clear() {
	s.replace(filter.ClearAll(s.state), "clear", "")
}

// IsActive reports whether any dimension is constrained.
func (s *Session) IsActive() bool {
	return filter.IsActive(s.state)
}

// ActiveCount returns the number of constrained dimensions.
func (s *Session) ActiveCount() int {
	return filter.ActiveDimensionCount(s.state)
}

// Apply returns the payments the current filter admits, in input order.
func (s *Session) Apply(payments []model.Payment) []model.Payment {
	return filter.Apply(payments, s.state)
}

// FilterBar returns the display data for the filter controls.
func (s *Session) FilterBar() viewmodel.FilterBarView {
	return viewmodel.NewFilterBar(s.state)
}

// Table filters payments and returns the table display data.
func (s *Session) Table(payments []model.Payment) viewmodel.PaymentTableView {
	matched := s.Apply(payments)
	s.logger.Debug("filter applied", "records", len(payments), "results", len(matched))

	var opts []viewmodel.TableOption
	if s.location != nil {
		opts = append(opts, viewmodel.InLocation(s.location))
	}
	return viewmodel.NewPaymentTable(matched, opts...)
}

// Save snapshots the current filter under name.
func (s *Session) Save(ctx context.Context, name string) (model.SavedFilter, error) {
	return s.saved.Save(ctx, name, s.state)
}

// SavedFilters returns the saved-filter list entries, oldest first.
func (s *Session) SavedFilters(ctx context.Context) ([]viewmodel.SavedFilterItemView, error) {
	filters, err := s.saved.List(ctx)
	if err != nil {
		return nil, err
	}
	return viewmodel.NewSavedFilterList(filters), nil
}

// Load replaces the whole filter with the snapshot saved under id.
func (s *Session) Load(ctx context.Context, id string) error {
	state, err := s.saved.Load(ctx, id)
	if err != nil {
		return err
	}
	s.replace(state, "load", id)
	return nil
}

// Delete removes a saved filter. The live filter is left as is.
func (s *Session) Delete(ctx context.Context, id string) error {
	return s.saved.Delete(ctx, id)
}

func (s *Session) replace(next model.FilterState, action, detail string) {
	s.state = next
	s.logger.Debug("filter changed",
		"action", action,
		"detail", detail,
		"active_dimensions", filter.ActiveDimensionCount(next))
}
