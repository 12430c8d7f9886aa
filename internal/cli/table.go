package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/payfilter/internal/viewmodel"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Column headers of the payment table.
var paymentColumns = []string{"Amount", "Description", "Status", "Customer", "Date", "Payment method"}

const statusColumn = 2

// maxDescriptionWidth bounds the description column in terminal output.
const maxDescriptionWidth = 40

// RenderFilterBar renders the four filter controls on one line, active ones
// highlighted, followed by the active-filter count.
func RenderFilterBar(v viewmodel.FilterBarView) string {
	parts := make([]string, 0, len(v.Controls))
	for _, c := range v.Controls {
		if c.IsActive {
			parts = append(parts, ActiveFilterStyle.Render("["+c.Label+"]"))
			continue
		}
		parts = append(parts, SubtleStyle.Render("["+c.Label+"]"))
	}

	line := FilterIcon + " " + strings.Join(parts, " ")
	if v.HasActiveFilters() {
		line += SubtleStyle.Render(fmt.Sprintf("  (%d active)", v.ActiveCount))
	}
	return line
}

// RenderPaymentTable renders the payment rows with status cells colored by
// tone. An empty view renders its empty-state message instead of a table.
func RenderPaymentTable(v viewmodel.PaymentTableView) string {
	if v.IsEmpty() {
		return SubtleStyle.Render(v.EmptyMessage) + "\n"
	}

	rows := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, []string{
			r.Amount,
			viewmodel.TruncateString(r.Description, maxDescriptionWidth),
			r.Status,
			r.Customer,
			r.Date,
			r.Method,
		})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Headers(paymentColumns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case col == statusColumn && row >= 0 && row < len(v.Rows):
				return ToneStyle(v.Rows[row].Tone).PaddingRight(2)
			default:
				return TableCellStyle
			}
		})

	return t.Render() + "\n" + SubtleStyle.Render(v.ResultLabel) + "\n"
}

// WritePaymentTable writes the filter bar and the table to w.
func WritePaymentTable(w io.Writer, bar viewmodel.FilterBarView, v viewmodel.PaymentTableView) error {
	_, err := fmt.Fprintf(w, "%s\n\n%s", RenderFilterBar(bar), RenderPaymentTable(v))
	return err
}

// WriteSavedFilters lists saved filters as an aligned table.
func WriteSavedFilters(w io.Writer, items []viewmodel.SavedFilterItemView) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No saved filters."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", "ID", "Name", "Created", "Filters"); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			item.ID,
			viewmodel.SanitizeForDisplay(item.Name),
			item.CreatedAt,
			item.Summary,
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}
