package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Dimension identifies one of the four independent filter axes.
type Dimension int

const (
	// DimensionDateRange filters on the payment date.
	DimensionDateRange Dimension = iota
	// DimensionAmountRange filters on the payment amount.
	DimensionAmountRange
	// DimensionStatus filters on the status label.
	DimensionStatus
	// DimensionPaymentMethod filters on the payment-method label.
	DimensionPaymentMethod
)

// Dimensions lists every filter dimension in display order.
var Dimensions = []Dimension{
	DimensionDateRange,
	DimensionAmountRange,
	DimensionStatus,
	DimensionPaymentMethod,
}

// String returns the dimension's wire name.
func (d Dimension) String() string {
	switch d {
	case DimensionDateRange:
		return "dateRange"
	case DimensionAmountRange:
		return "amountRange"
	case DimensionStatus:
		return "status"
	case DimensionPaymentMethod:
		return "paymentMethod"
	default:
		return fmt.Sprintf("Unknown(%d)", d)
	}
}

// ParseDimension converts a wire name back into a Dimension.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown filter dimension %q", s)
}

// DateRange bounds the payment date. A nil bound is unbounded on that side.
type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// IsSet reports whether either bound is present.
func (r DateRange) IsSet() bool {
	return r.From != nil || r.To != nil
}

// AmountRange bounds the payment amount. A nil bound is unbounded on that side.
type AmountRange struct {
	Min *decimal.Decimal `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

// IsSet reports whether either bound is present.
func (r AmountRange) IsSet() bool {
	return r.Min != nil || r.Max != nil
}

// FilterState describes the active filter across all dimensions.
// The zero value is the empty filter: every dimension unconstrained.
type FilterState struct {
	DateRange     DateRange   `json:"dateRange"`
	AmountRange   AmountRange `json:"amountRange"`
	Status        []string    `json:"status"`
	PaymentMethod []string    `json:"paymentMethod"`
}

// Clone returns a deep copy that shares no memory with s.
func (s FilterState) Clone() FilterState {
	return FilterState{
		DateRange: DateRange{
			From: cloneTime(s.DateRange.From),
			To:   cloneTime(s.DateRange.To),
		},
		AmountRange: AmountRange{
			Min: cloneDecimal(s.AmountRange.Min),
			Max: cloneDecimal(s.AmountRange.Max),
		},
		Status:        slices.Clone(s.Status),
		PaymentMethod: slices.Clone(s.PaymentMethod),
	}
}

// Equal reports whether two states describe the same filter.
// Instants and amounts compare by value; nil and empty selections are equal.
func (s FilterState) Equal(other FilterState) bool {
	return timePtrEqual(s.DateRange.From, other.DateRange.From) &&
		timePtrEqual(s.DateRange.To, other.DateRange.To) &&
		decimalPtrEqual(s.AmountRange.Min, other.AmountRange.Min) &&
		decimalPtrEqual(s.AmountRange.Max, other.AmountRange.Max) &&
		slices.Equal(s.Status, other.Status) &&
		slices.Equal(s.PaymentMethod, other.PaymentMethod)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := d.Copy()
	return &c
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
