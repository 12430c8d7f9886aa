package viewmodel

import (
	"github.com/Veraticus/payfilter/internal/filter"
	"github.com/Veraticus/payfilter/internal/model"
)

// FilterBarView is the display data for the row of filter controls.
type FilterBarView struct {
	DateLabel   string
	AmountLabel string
	StatusLabel string
	MethodLabel string
	Controls    []ControlView
	ActiveCount int
	CanSave     bool
	CanClear    bool
}

// ControlView is a single filter control.
type ControlView struct {
	Label     string
	Dimension model.Dimension
	IsActive  bool
}

// NewFilterBar builds the filter bar for state.
func NewFilterBar(state model.FilterState) FilterBarView {
	active := filter.ActiveDimensionCount(state)
	v := FilterBarView{
		DateLabel:   DateRangeLabel(state.DateRange),
		AmountLabel: AmountRangeLabel(state.AmountRange),
		StatusLabel: MultiSelectLabel("Status", state.Status),
		MethodLabel: MultiSelectLabel("Payment method", state.PaymentMethod),
		ActiveCount: active,
		CanSave:     active > 0,
		CanClear:    active > 0,
	}

	labels := map[model.Dimension]string{
		model.DimensionDateRange:     v.DateLabel,
		model.DimensionAmountRange:   v.AmountLabel,
		model.DimensionStatus:        v.StatusLabel,
		model.DimensionPaymentMethod: v.MethodLabel,
	}
	for _, d := range model.Dimensions {
		v.Controls = append(v.Controls, ControlView{
			Dimension: d,
			Label:     labels[d],
			IsActive:  filter.IsDimensionActive(state, d),
		})
	}
	return v
}

// HasActiveFilters reports whether the badge should be shown.
func (v FilterBarView) HasActiveFilters() bool {
	return v.ActiveCount > 0
}
