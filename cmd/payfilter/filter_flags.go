package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/filter"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/session"
	"github.com/spf13/cobra"
)

var errInvalidFlag = errors.New("invalid flag value")

// addFilterFlags registers the flags shared by every command that builds a filter.
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("from", "", "earliest payment date, inclusive (YYYY-MM-DD or RFC 3339)")
	f.String("to", "", "latest payment date, inclusive (YYYY-MM-DD or RFC 3339)")
	f.String("min", "", "minimum amount, inclusive")
	f.String("max", "", "maximum amount, inclusive")
	f.StringSlice("status", nil, "status to include (repeatable)")
	f.StringSlice("method", nil, "payment method to include (repeatable)")
	f.Int("last", 0, "date preset: last 7, 30 or 90 days")
	f.Int("amount-preset", 0, "amount preset: 1 (< $10), 2 ($10-$100), 3 ($100-$1,000), 4 (> $1,000)")
	f.String("saved", "", "start from the saved filter with this ID")
}

// buildSession applies the filter flags to a fresh session. A saved filter
// is loaded first, presets next, and explicit bounds and selections last, so
// each later step replaces the dimension it touches.
func buildSession(cmd *cobra.Command, a *app) (*session.Session, error) {
	flags := cmd.Flags()
	s := a.newSession()

	if id, _ := flags.GetString("saved"); id != "" {
		if err := s.Load(cmd.Context(), id); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.NewUserError(fmt.Sprintf("no saved filter with ID %q", id), err)
			}
			return nil, err
		}
	}

	if flags.Changed("last") {
		days, _ := flags.GetInt("last")
		preset, err := filter.DatePresetForDays(days)
		if err != nil {
			return nil, common.NewUserError(err.Error(), errInvalidFlag)
		}
		s.ApplyDatePreset(preset)
	}

	if flags.Changed("amount-preset") {
		position, _ := flags.GetInt("amount-preset")
		preset, err := filter.AmountPresetAt(position)
		if err != nil {
			return nil, common.NewUserError(err.Error(), errInvalidFlag)
		}
		s.ApplyAmountPreset(preset)
	}

	if flags.Changed("from") || flags.Changed("to") {
		r := s.State().DateRange
		if flags.Changed("from") {
			text, _ := flags.GetString("from")
			from, err := filter.ParseDateBound(text, a.location)
			if err != nil {
				return nil, common.NewUserError("--from: "+err.Error(), errInvalidFlag)
			}
			r.From = from
		}
		if flags.Changed("to") {
			text, _ := flags.GetString("to")
			to, err := filter.ParseDateBound(text, a.location)
			if err != nil {
				return nil, common.NewUserError("--to: "+err.Error(), errInvalidFlag)
			}
			r.To = to
		}
		s.SetDateRange(r)
	}

	if flags.Changed("min") || flags.Changed("max") {
		r := s.State().AmountRange
		if flags.Changed("min") {
			text, _ := flags.GetString("min")
			r.Min = filter.ParseAmountBound(text)
		}
		if flags.Changed("max") {
			text, _ := flags.GetString("max")
			r.Max = filter.ParseAmountBound(text)
		}
		s.SetAmountRange(r)
	}

	if flags.Changed("status") {
		values, _ := flags.GetStringSlice("status")
		selected, err := canonicalOptions(values, model.StatusOptions, "status")
		if err != nil {
			return nil, err
		}
		s.SetStatus(selected)
	}

	if flags.Changed("method") {
		values, _ := flags.GetStringSlice("method")
		selected, err := canonicalOptions(values, model.PaymentMethodOptions, "method")
		if err != nil {
			return nil, err
		}
		s.SetPaymentMethod(selected)
	}

	return s, nil
}

// canonicalOptions matches values against a vocabulary ignoring case and
// returns the vocabulary spelling, in the order given, without duplicates.
func canonicalOptions(values, vocabulary []string, kind string) ([]string, error) {
	selected := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		idx := slices.IndexFunc(vocabulary, func(option string) bool {
			return strings.EqualFold(option, v)
		})
		if idx < 0 {
			return nil, common.NewUserError(
				fmt.Sprintf("unknown %s %q (run 'payfilter options %s' to list them)", kind, v, kind),
				errInvalidFlag)
		}
		if !slices.Contains(selected, vocabulary[idx]) {
			selected = append(selected, vocabulary[idx])
		}
	}
	return selected, nil
}
