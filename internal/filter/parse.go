package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmountBound reads a user-entered amount bound. Blank or non-numeric
// text means "no constraint" rather than an error.
func ParseAmountBound(text string) *decimal.Decimal {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}
	return &d
}

// ParseDateBound reads a date bound as YYYY-MM-DD (midnight in loc) or RFC 3339.
// Blank text means "no constraint".
func ParseDateBound(text string, loc *time.Location) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation("2006-01-02", text, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", text)
	}
	return &t, nil
}
