package filter

import (
	"fmt"
	"time"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/shopspring/decimal"
)

// AmountPreset is a named amount-range shortcut.
type AmountPreset struct {
	Min   *decimal.Decimal
	Max   *decimal.Decimal
	Label string
}

// Range returns a fresh AmountRange for the preset.
func (p AmountPreset) Range() model.AmountRange {
	return model.FilterState{AmountRange: model.AmountRange{Min: p.Min, Max: p.Max}}.Clone().AmountRange
}

// DatePreset is a named date-range shortcut relative to the evaluation instant.
type DatePreset struct {
	Label string
	Days  int
}

// Range returns [now - Days×24h, now].
func (p DatePreset) Range(now time.Time) model.DateRange {
	from := now.Add(-time.Duration(p.Days) * 24 * time.Hour)
	to := now
	return model.DateRange{From: &from, To: &to}
}

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// AmountPresets are the four amount shortcuts, in display order.
var AmountPresets = []AmountPreset{
	{Label: "Less than $10", Max: amount(10)},
	{Label: "$10 - $100", Min: amount(10), Max: amount(100)},
	{Label: "$100 - $1,000", Min: amount(100), Max: amount(1000)},
	{Label: "More than $1,000", Min: amount(1000)},
}

// DatePresets are the three date shortcuts, in display order.
var DatePresets = []DatePreset{
	{Label: "Last 7 days", Days: 7},
	{Label: "Last 30 days", Days: 30},
	{Label: "Last 90 days", Days: 90},
}

// DatePresetForDays finds the preset covering the given number of days.
func DatePresetForDays(days int) (DatePreset, error) {
	for _, p := range DatePresets {
		if p.Days == days {
			return p, nil
		}
	}
	return DatePreset{}, fmt.Errorf("no date preset for %d days (choose 7, 30 or 90)", days)
}

// AmountPresetAt returns the 1-based amount preset.
func AmountPresetAt(position int) (AmountPreset, error) {
	if position < 1 || position > len(AmountPresets) {
		return AmountPreset{}, fmt.Errorf("amount preset %d out of range (1-%d)", position, len(AmountPresets))
	}
	return AmountPresets[position-1], nil
}
