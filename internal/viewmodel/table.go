package viewmodel

import (
	"fmt"
	"time"

	"github.com/Veraticus/payfilter/internal/model"
)

// EmptyTableMessage is shown when no payment passes the filter.
const EmptyTableMessage = "No payments match your current filters."

// StatusTone groups status labels by the color they are rendered in.
type StatusTone int

const (
	// ToneNeutral is used for statuses without a dedicated color.
	ToneNeutral StatusTone = iota
	// ToneSuccess marks settled payments.
	ToneSuccess
	// ToneDanger marks failed payments.
	ToneDanger
	// ToneWarning marks payments still in flight.
	ToneWarning
	// ToneInfo marks refunded payments.
	ToneInfo
)

// String returns a string representation of the tone.
func (t StatusTone) String() string {
	switch t {
	case ToneNeutral:
		return "Neutral"
	case ToneSuccess:
		return "Success"
	case ToneDanger:
		return "Danger"
	case ToneWarning:
		return "Warning"
	case ToneInfo:
		return "Info"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// ToneForStatus maps a status label to its tone.
func ToneForStatus(status string) StatusTone {
	switch status {
	case model.StatusSucceeded:
		return ToneSuccess
	case model.StatusFailed:
		return ToneDanger
	case model.StatusPending:
		return ToneWarning
	case model.StatusRefunded:
		return ToneInfo
	default:
		return ToneNeutral
	}
}

// PaymentTableView is the display data for the filtered payment table.
type PaymentTableView struct {
	ResultLabel  string
	EmptyMessage string
	Rows         []PaymentRowView
}

// PaymentRowView is one row of the payment table.
type PaymentRowView struct {
	ID          string
	Amount      string
	Description string
	Status      string
	Customer    string
	Date        string
	Method      string
	Tone        StatusTone
}

// IsEmpty returns true if no row survived the filter.
func (v PaymentTableView) IsEmpty() bool {
	return len(v.Rows) == 0
}

type tableOptions struct {
	loc *time.Location
}

// TableOption customizes NewPaymentTable.
type TableOption func(*tableOptions)

// InLocation renders payment dates in loc instead of their own zone.
func InLocation(loc *time.Location) TableOption {
	return func(o *tableOptions) {
		o.loc = loc
	}
}

// NewPaymentTable builds the table for payments that already passed the filter.
func NewPaymentTable(payments []model.Payment, opts ...TableOption) PaymentTableView {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}

	v := PaymentTableView{
		ResultLabel: ResultCountLabel(len(payments)),
		Rows:        make([]PaymentRowView, 0, len(payments)),
	}
	if len(payments) == 0 {
		v.EmptyMessage = EmptyTableMessage
	}

	for _, p := range payments {
		date := p.Date
		if o.loc != nil {
			date = date.In(o.loc)
		}
		v.Rows = append(v.Rows, PaymentRowView{
			ID:          p.ID,
			Amount:      FormatAmount(p.Amount, p.Currency),
			Description: SanitizeForDisplay(p.Description),
			Status:      p.Status,
			Customer:    p.Email,
			Date:        FormatPaymentDate(date),
			Method:      p.PaymentMethod,
			Tone:        ToneForStatus(p.Status),
		})
	}
	return v
}
