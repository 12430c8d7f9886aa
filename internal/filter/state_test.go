package filter

import (
	"testing"
	"time"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullState() model.FilterState {
	return model.FilterState{
		DateRange:     model.DateRange{From: ts(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))},
		AmountRange:   model.AmountRange{Min: dec("10"), Max: dec("100")},
		Status:        []string{"Succeeded"},
		PaymentMethod: []string{"Card", "ACH"},
	}
}

func TestUpdateDimension_ReplacesOnlyNamedDimension(t *testing.T) {
	original := fullState()
	snapshot := original.Clone()

	tests := []struct {
		check     func(t *testing.T, got model.FilterState)
		value     any
		name      string
		dimension model.Dimension
	}{
		{
			name:      "date range",
			dimension: model.DimensionDateRange,
			value:     model.DateRange{To: ts(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))},
			check: func(t *testing.T, got model.FilterState) {
				assert.Nil(t, got.DateRange.From)
				require.NotNil(t, got.DateRange.To)
				assert.Equal(t, snapshot.AmountRange, got.AmountRange)
				assert.Equal(t, snapshot.Status, got.Status)
			},
		},
		{
			name:      "amount range",
			dimension: model.DimensionAmountRange,
			value:     model.AmountRange{Min: dec("500"), Max: dec("1")},
			check: func(t *testing.T, got model.FilterState) {
				assert.True(t, got.AmountRange.Min.Equal(*dec("500")))
				assert.True(t, got.AmountRange.Max.Equal(*dec("1")))
				assert.Equal(t, snapshot.PaymentMethod, got.PaymentMethod)
			},
		},
		{
			name:      "status",
			dimension: model.DimensionStatus,
			value:     []string{"Failed", "Pending"},
			check: func(t *testing.T, got model.FilterState) {
				assert.Equal(t, []string{"Failed", "Pending"}, got.Status)
				assert.Equal(t, snapshot.PaymentMethod, got.PaymentMethod)
			},
		},
		{
			name:      "payment method cleared",
			dimension: model.DimensionPaymentMethod,
			value:     []string{},
			check: func(t *testing.T, got model.FilterState) {
				assert.Empty(t, got.PaymentMethod)
				assert.Equal(t, snapshot.Status, got.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UpdateDimension(original, tt.dimension, tt.value)
			require.NoError(t, err)
			tt.check(t, got)
			assert.True(t, original.Equal(snapshot), "input state must not change")
		})
	}
}

func TestUpdateDimension_RejectsWrongShape(t *testing.T) {
	original := fullState()

	_, err := UpdateDimension(original, model.DimensionAmountRange, []string{"10"})
	assert.ErrorIs(t, err, ErrDimensionValue)

	_, err = UpdateDimension(original, model.DimensionStatus, "Succeeded")
	assert.ErrorIs(t, err, ErrDimensionValue)

	_, err = UpdateDimension(original, model.Dimension(42), nil)
	assert.ErrorIs(t, err, ErrDimensionValue)
}

func TestWithStatus_DoesNotAliasCallerSlice(t *testing.T) {
	values := []string{"Succeeded"}
	got := WithStatus(model.FilterState{}, values)
	values[0] = "Failed"
	assert.Equal(t, []string{"Succeeded"}, got.Status)
}

func TestClearAll(t *testing.T) {
	states := []model.FilterState{{}, fullState(), {Status: []string{"Card", "PayPal"}}}
	for _, s := range states {
		cleared := ClearAll(s)
		assert.False(t, IsActive(cleared))
		assert.Zero(t, ActiveDimensionCount(cleared))
		assert.True(t, ClearAll(cleared).Equal(cleared), "ClearAll must be idempotent")
	}
}

func TestActiveDimensionCount(t *testing.T) {
	tests := []struct {
		name  string
		state model.FilterState
		want  int
	}{
		{name: "empty", state: model.FilterState{}, want: 0},
		{name: "several values in one dimension", state: model.FilterState{Status: []string{"Card", "PayPal"}}, want: 1},
		{name: "only upper date bound", state: model.FilterState{DateRange: model.DateRange{To: ts(time.Now())}}, want: 1},
		{name: "zero amount is a constraint", state: model.FilterState{AmountRange: model.AmountRange{Min: dec("0")}}, want: 1},
		{name: "empty selections are sentinels", state: model.FilterState{Status: []string{}, PaymentMethod: []string{}}, want: 0},
		{name: "everything", state: fullState(), want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActiveDimensionCount(tt.state))
			assert.Equal(t, tt.want > 0, IsActive(tt.state))
		})
	}
}

func TestIsDimensionActive(t *testing.T) {
	state := model.FilterState{Status: []string{"Pending"}}
	assert.True(t, IsDimensionActive(state, model.DimensionStatus))
	assert.False(t, IsDimensionActive(state, model.DimensionDateRange))
	assert.False(t, IsDimensionActive(state, model.DimensionAmountRange))
	assert.False(t, IsDimensionActive(state, model.DimensionPaymentMethod))
	assert.False(t, IsDimensionActive(state, model.Dimension(7)))
}
