package sheets

import (
	"time"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/Veraticus/payfilter/internal/viewmodel"
)

// Column headers of the payment table, in sheet order.
var paymentHeaders = []any{
	"Date",
	"Description",
	"Amount",
	"Currency",
	"Status",
	"Payment method",
	"Customer",
	"ID",
}

const (
	amountColumn = 2
	// Title, blank, filter, results, generated, blank, then the header row.
	headerRowIndex = 6
	sheetTitle     = "Payments"
)

// buildValues lays out the summary block followed by one row per payment,
// preserving the caller's order.
func buildValues(payments []model.Payment, summary service.ExportSummary, loc *time.Location) [][]any {
	values := make([][]any, 0, headerRowIndex+1+len(payments))

	filterLabel := summary.FilterLabel
	if filterLabel == "" {
		filterLabel = "No filters"
	}
	resultLabel := summary.ResultLabel
	if resultLabel == "" {
		resultLabel = viewmodel.ResultCountLabel(len(payments))
	}

	values = append(values,
		[]any{sheetTitle},
		[]any{},
		[]any{"Filter", filterLabel},
		[]any{"Results", resultLabel},
		[]any{"Generated", summary.GeneratedAt.In(loc).Format("2006-01-02 15:04")},
		[]any{},
		paymentHeaders,
	)

	for _, p := range payments {
		values = append(values, []any{
			p.Date.In(loc).Format("2006-01-02 15:04"),
			p.Description,
			p.Amount.InexactFloat64(),
			p.Currency,
			p.Status,
			p.PaymentMethod,
			p.Email,
			p.ID,
		})
	}

	return values
}
