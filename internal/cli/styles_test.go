package cli

import (
	"testing"

	"github.com/Veraticus/payfilter/internal/viewmodel"
	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		format func(string) string
		name   string
		want   string
	}{
		{name: "success", format: FormatSuccess, want: SuccessIcon + " done"},
		{name: "error", format: FormatError, want: ErrorIcon + " done"},
		{name: "warning", format: FormatWarning, want: WarningIcon + " done"},
		{name: "info", format: FormatInfo, want: InfoIcon + " done"},
		{name: "prompt", format: FormatPrompt, want: "done → "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.format("done"), tt.want)
		})
	}
}

func TestToneStyle(t *testing.T) {
	tests := []struct {
		tone viewmodel.StatusTone
		want any
	}{
		{tone: viewmodel.ToneSuccess, want: SuccessColor},
		{tone: viewmodel.ToneDanger, want: ErrorColor},
		{tone: viewmodel.ToneWarning, want: WarningColor},
		{tone: viewmodel.ToneInfo, want: InfoColor},
		{tone: viewmodel.ToneNeutral, want: SubtleColor},
	}

	for _, tt := range tests {
		t.Run(tt.tone.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ToneStyle(tt.tone).GetForeground())
		})
	}
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Import complete", "3 new payments")
	assert.Contains(t, out, "Import complete")
	assert.Contains(t, out, "3 new payments")
}
