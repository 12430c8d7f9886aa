// Package filter implements the filter-state transitions and the predicate
// that decides which payments a FilterState admits.
package filter

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Veraticus/payfilter/internal/model"
)

// ErrDimensionValue is returned when a value does not have the shape its dimension requires.
var ErrDimensionValue = errors.New("value does not fit filter dimension")

// UpdateDimension returns a copy of state with exactly one dimension replaced.
// Values are not validated beyond their shape: an inverted range is accepted
// and simply matches nothing.
func UpdateDimension(state model.FilterState, dimension model.Dimension, value any) (model.FilterState, error) {
	switch dimension {
	case model.DimensionDateRange:
		r, ok := value.(model.DateRange)
		if !ok {
			return state, fmt.Errorf("%w: %s expects model.DateRange, got %T", ErrDimensionValue, dimension, value)
		}
		return WithDateRange(state, r), nil
	case model.DimensionAmountRange:
		r, ok := value.(model.AmountRange)
		if !ok {
			return state, fmt.Errorf("%w: %s expects model.AmountRange, got %T", ErrDimensionValue, dimension, value)
		}
		return WithAmountRange(state, r), nil
	case model.DimensionStatus:
		values, ok := value.([]string)
		if !ok {
			return state, fmt.Errorf("%w: %s expects []string, got %T", ErrDimensionValue, dimension, value)
		}
		return WithStatus(state, values), nil
	case model.DimensionPaymentMethod:
		values, ok := value.([]string)
		if !ok {
			return state, fmt.Errorf("%w: %s expects []string, got %T", ErrDimensionValue, dimension, value)
		}
		return WithPaymentMethod(state, values), nil
	default:
		return state, fmt.Errorf("%w: %s", ErrDimensionValue, dimension)
	}
}

// WithDateRange returns a copy of state with the date range replaced.
func WithDateRange(state model.FilterState, r model.DateRange) model.FilterState {
	next := state.Clone()
	next.DateRange = model.FilterState{DateRange: r}.Clone().DateRange
	return next
}

// WithAmountRange returns a copy of state with the amount range replaced.
func WithAmountRange(state model.FilterState, r model.AmountRange) model.FilterState {
	next := state.Clone()
	next.AmountRange = model.FilterState{AmountRange: r}.Clone().AmountRange
	return next
}

// WithStatus returns a copy of state with the status selection replaced.
func WithStatus(state model.FilterState, values []string) model.FilterState {
	next := state.Clone()
	next.Status = slices.Clone(values)
	return next
}

// WithPaymentMethod returns a copy of state with the payment-method selection replaced.
func WithPaymentMethod(state model.FilterState, values []string) model.FilterState {
	next := state.Clone()
	next.PaymentMethod = slices.Clone(values)
	return next
}

// ClearAll returns the canonical empty state.
func ClearAll(model.FilterState) model.FilterState {
	return model.FilterState{}
}

// IsActive reports whether any dimension deviates from its "no constraint" sentinel.
func IsActive(state model.FilterState) bool {
	return ActiveDimensionCount(state) > 0
}

// ActiveDimensionCount counts constrained dimensions. A dimension counts once
// no matter how many values it holds.
func ActiveDimensionCount(state model.FilterState) int {
	count := 0
	if state.DateRange.IsSet() {
		count++
	}
	if state.AmountRange.IsSet() {
		count++
	}
	if len(state.Status) > 0 {
		count++
	}
	if len(state.PaymentMethod) > 0 {
		count++
	}
	return count
}

// IsDimensionActive reports whether a single dimension is constrained.
func IsDimensionActive(state model.FilterState, dimension model.Dimension) bool {
	switch dimension {
	case model.DimensionDateRange:
		return state.DateRange.IsSet()
	case model.DimensionAmountRange:
		return state.AmountRange.IsSet()
	case model.DimensionStatus:
		return len(state.Status) > 0
	case model.DimensionPaymentMethod:
		return len(state.PaymentMethod) > 0
	default:
		return false
	}
}
