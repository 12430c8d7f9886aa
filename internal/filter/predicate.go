package filter

import (
	"slices"

	"github.com/Veraticus/payfilter/internal/model"
)

// Matches reports whether the payment satisfies every dimension of state.
func Matches(p model.Payment, state model.FilterState) bool {
	return MatchesDate(p, state.DateRange) &&
		MatchesAmount(p, state.AmountRange) &&
		MatchesStatus(p, state.Status) &&
		MatchesPaymentMethod(p, state.PaymentMethod)
}

// MatchesDate checks the payment date against inclusive bounds.
func MatchesDate(p model.Payment, r model.DateRange) bool {
	if r.From != nil && p.Date.Before(*r.From) {
		return false
	}
	if r.To != nil && p.Date.After(*r.To) {
		return false
	}
	return true
}

// MatchesAmount checks the payment amount against inclusive bounds.
func MatchesAmount(p model.Payment, r model.AmountRange) bool {
	if r.Min != nil && p.Amount.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && p.Amount.GreaterThan(*r.Max) {
		return false
	}
	return true
}

// MatchesStatus admits every payment when no status is selected.
func MatchesStatus(p model.Payment, selected []string) bool {
	return len(selected) == 0 || slices.Contains(selected, p.Status)
}

// MatchesPaymentMethod admits every payment when no method is selected.
func MatchesPaymentMethod(p model.Payment, selected []string) bool {
	return len(selected) == 0 || slices.Contains(selected, p.PaymentMethod)
}

// Apply returns the payments admitted by state, in their original order.
// It scans every record; the input slice is not modified.
func Apply(payments []model.Payment, state model.FilterState) []model.Payment {
	matched := make([]model.Payment, 0, len(payments))
	for _, p := range payments {
		if Matches(p, state) {
			matched = append(matched, p)
		}
	}
	return matched
}
