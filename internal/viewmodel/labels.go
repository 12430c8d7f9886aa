// Package viewmodel derives the display data for the filter bar, the payment
// table and the saved-filter list from model values. Everything here is pure:
// no errors, no I/O, and malformed input such as an inverted range is
// rendered literally.
package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/shopspring/decimal"
)

// SummarySeparator joins the parts of a saved-filter summary.
const SummarySeparator = " • "

const (
	labelDateLong  = "Jan 02, 2006"
	labelDateShort = "Jan 02"
)

// AmountRangeLabel returns the filter-bar label for an amount range.
func AmountRangeLabel(r model.AmountRange) string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("$%s - $%s", r.Min, r.Max)
	case r.Min != nil:
		return fmt.Sprintf("≥ $%s", r.Min)
	case r.Max != nil:
		return fmt.Sprintf("≤ $%s", r.Max)
	default:
		return "Amount"
	}
}

// DateRangeLabel returns the filter-bar label for a date range.
func DateRangeLabel(r model.DateRange) string {
	switch {
	case r.From != nil && r.To != nil:
		return r.From.Format(labelDateShort) + " - " + r.To.Format(labelDateLong)
	case r.From != nil:
		return "From " + r.From.Format(labelDateLong)
	case r.To != nil:
		return "Until " + r.To.Format(labelDateLong)
	default:
		return "Date"
	}
}

// MultiSelectLabel returns label when nothing is selected, the value itself
// when exactly one is, and a count otherwise.
func MultiSelectLabel(label string, values []string) string {
	switch len(values) {
	case 0:
		return label
	case 1:
		return values[0]
	default:
		return fmt.Sprintf("%d selected", len(values))
	}
}

// SavedFilterSummary describes the active dimensions of a saved snapshot in
// short form. Inactive dimensions are omitted; an empty filter yields "".
func SavedFilterSummary(state model.FilterState) string {
	var parts []string

	dr := state.DateRange
	switch {
	case dr.From != nil && dr.To != nil:
		parts = append(parts, dr.From.Format(labelDateShort)+" - "+dr.To.Format(labelDateShort))
	case dr.From != nil:
		parts = append(parts, "From "+dr.From.Format(labelDateShort))
	case dr.To != nil:
		parts = append(parts, "Until "+dr.To.Format(labelDateShort))
	}

	ar := state.AmountRange
	switch {
	case ar.Min != nil && ar.Max != nil:
		parts = append(parts, fmt.Sprintf("$%s-%s", ar.Min, ar.Max))
	case ar.Min != nil:
		parts = append(parts, fmt.Sprintf("≥$%s", ar.Min))
	case ar.Max != nil:
		parts = append(parts, fmt.Sprintf("≤$%s", ar.Max))
	}

	if n := len(state.Status); n > 0 {
		parts = append(parts, pluralize(n, "status", "statuses"))
	}
	if n := len(state.PaymentMethod); n > 0 {
		parts = append(parts, pluralize(n, "method", "methods"))
	}

	return strings.Join(parts, SummarySeparator)
}

// FormatAmount renders an amount with two decimals and its currency code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return "$" + amount.StringFixed(2)
	}
	return fmt.Sprintf("$%s %s", amount.StringFixed(2), currency)
}

// FormatPaymentDate renders a payment instant the way the table shows it.
func FormatPaymentDate(t time.Time) string {
	return t.Format("Jan 02, 3:04 PM")
}

// FormatDate renders a calendar date with the year.
func FormatDate(t time.Time) string {
	return t.Format(labelDateLong)
}

// ResultCountLabel returns "1 result" or "<n> results".
func ResultCountLabel(n int) string {
	return pluralize(n, "result", "results")
}

// TruncateString truncates a string to maxLen runes, ending in an ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// SanitizeForDisplay removes control characters and collapses whitespace.
func SanitizeForDisplay(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
