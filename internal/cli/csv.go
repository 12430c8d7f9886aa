package cli

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/Veraticus/payfilter/internal/model"
)

// CSVHeader is the header row written by WritePaymentsCSV.
var CSVHeader = []string{"id", "date", "amount", "currency", "status", "description", "customer", "payment_method"}

// WritePaymentsCSV writes payments in the given order. Dates are RFC 3339 in
// loc, amounts are fixed to two decimal places.
func WritePaymentsCSV(w io.Writer, payments []model.Payment, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range payments {
		if err := writer.Write([]string{
			p.ID,
			p.Date.In(loc).Format(time.RFC3339),
			p.Amount.StringFixed(2),
			p.Currency,
			p.Status,
			p.Description,
			p.Email,
			p.PaymentMethod,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
