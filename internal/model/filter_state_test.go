package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() FilterState {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	minAmount := decimal.NewFromInt(10)
	maxAmount := decimal.NewFromInt(100)
	return FilterState{
		DateRange:     DateRange{From: &from, To: &to},
		AmountRange:   AmountRange{Min: &minAmount, Max: &maxAmount},
		Status:        []string{"Succeeded", "Refunded"},
		PaymentMethod: []string{"Card"},
	}
}

func TestFilterState_CloneIsIndependent(t *testing.T) {
	original := sampleState()
	clone := original.Clone()
	require.True(t, clone.Equal(original))

	*clone.DateRange.From = clone.DateRange.From.AddDate(0, 0, 1)
	clone.Status[0] = "Failed"
	clone.PaymentMethod = append(clone.PaymentMethod, "ACH")
	newMin := decimal.NewFromInt(50)
	clone.AmountRange.Min = &newMin

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *original.DateRange.From)
	assert.Equal(t, []string{"Succeeded", "Refunded"}, original.Status)
	assert.Equal(t, []string{"Card"}, original.PaymentMethod)
	assert.True(t, original.AmountRange.Min.Equal(decimal.NewFromInt(10)))
	assert.False(t, clone.Equal(original))
}

func TestFilterState_CloneOfZeroValue(t *testing.T) {
	clone := FilterState{}.Clone()
	assert.Nil(t, clone.DateRange.From)
	assert.Nil(t, clone.AmountRange.Max)
	assert.Empty(t, clone.Status)
	assert.True(t, clone.Equal(FilterState{}))
}

func TestFilterState_Equal(t *testing.T) {
	base := sampleState()

	tests := []struct {
		modify func(*FilterState)
		name   string
		want   bool
	}{
		{name: "identical", modify: func(*FilterState) {}, want: true},
		{
			name: "same instant in another zone",
			modify: func(s *FilterState) {
				from := s.DateRange.From.In(time.FixedZone("EST", -5*3600))
				s.DateRange.From = &from
			},
			want: true,
		},
		{
			name: "same amount different exponent",
			modify: func(s *FilterState) {
				minAmount := decimal.RequireFromString("10.00")
				s.AmountRange.Min = &minAmount
			},
			want: true,
		},
		{name: "missing bound", modify: func(s *FilterState) { s.DateRange.To = nil }, want: false},
		{name: "status order", modify: func(s *FilterState) { s.Status = []string{"Refunded", "Succeeded"} }, want: false},
		{name: "method removed", modify: func(s *FilterState) { s.PaymentMethod = nil }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base.Clone()
			tt.modify(&other)
			assert.Equal(t, tt.want, base.Equal(other))
		})
	}
}

func TestFilterState_EqualTreatsNilAndEmptySelectionsAlike(t *testing.T) {
	assert.True(t, FilterState{Status: []string{}}.Equal(FilterState{}))
}

func TestFilterState_JSONRoundTrip(t *testing.T) {
	original := sampleState()

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dateRange"`)
	assert.Contains(t, string(data), `"paymentMethod"`)

	var decoded FilterState
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(original))
}

func TestDimension_StringAndParse(t *testing.T) {
	for _, d := range Dimensions {
		parsed, err := ParseDimension(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}

	_, err := ParseDimension("currency")
	assert.Error(t, err)
	assert.Equal(t, "Unknown(9)", Dimension(9).String())
}
