package filter

import (
	"testing"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestToggleOption(t *testing.T) {
	selected := []string{"Succeeded", "Failed"}

	added := ToggleOption(selected, "Pending")
	assert.Equal(t, []string{"Succeeded", "Failed", "Pending"}, added)

	removed := ToggleOption(added, "Succeeded")
	assert.Equal(t, []string{"Failed", "Pending"}, removed)

	assert.Equal(t, []string{"Succeeded", "Failed"}, selected, "input must not change")
	assert.Equal(t, []string{"Card"}, ToggleOption(nil, "Card"))
	assert.Empty(t, ToggleOption([]string{"Card"}, "Card"))
}

func TestSearchOptions(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{term: "", want: model.PaymentMethodOptions},
		{term: "pay", want: []string{"PayPal", "Apple Pay", "Google Pay"}},
		{term: "BANK", want: []string{"Bank transfer"}},
		{term: "crypto", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchOptions(model.PaymentMethodOptions, tt.term))
		})
	}
}
