// Package cli renders payfilter output for the terminal.
package cli

import (
	"github.com/Veraticus/payfilter/internal/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#7C6CF2")
	// SuccessColor marks succeeded payments and completed operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor marks pending payments and cautions.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor marks failed payments and errors.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor marks refunded payments and informational messages.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor is used for less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// ActiveFilterStyle highlights filter controls that narrow the table.
	ActiveFilterStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor).
				PaddingRight(2)

	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)

	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	FilterIcon  = "⛃"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a bordered box under a title.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

// ToneStyle maps a status tone to its foreground style.
func ToneStyle(tone viewmodel.StatusTone) lipgloss.Style {
	switch tone {
	case viewmodel.ToneSuccess:
		return SuccessStyle
	case viewmodel.ToneDanger:
		return ErrorStyle
	case viewmodel.ToneWarning:
		return WarningStyle
	case viewmodel.ToneInfo:
		return InfoStyle
	default:
		return SubtleStyle
	}
}
