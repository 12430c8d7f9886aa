package payments

import (
	"testing"
	"time"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/shopspring/decimal"
)

// Builder constructs a single payment with sensible defaults.
type Builder struct {
	t       *testing.T
	payment model.Payment
}

// New starts a builder for a succeeded USD card payment of $1.00.
func New(t *testing.T, id string) *Builder {
	t.Helper()
	return &Builder{
		t: t,
		payment: model.Payment{
			ID:            id,
			Amount:        decimal.NewFromInt(1),
			Currency:      "USD",
			Status:        model.StatusSucceeded,
			Description:   "Test payment",
			Email:         "test@example.com",
			Date:          ReferenceTime,
			PaymentMethod: model.MethodCard,
		},
	}
}

// WithAmount sets the amount from its decimal text form.
func (b *Builder) WithAmount(amount string) *Builder {
	b.t.Helper()
	d, err := decimal.NewFromString(amount)
	if err != nil {
		b.t.Fatalf("invalid amount %q: %v", amount, err)
	}
	b.payment.Amount = d
	return b
}

// WithStatus sets the status label.
func (b *Builder) WithStatus(status string) *Builder {
	b.payment.Status = status
	return b
}

// WithMethod sets the payment-method label.
func (b *Builder) WithMethod(method string) *Builder {
	b.payment.PaymentMethod = method
	return b
}

// WithDate sets the payment instant.
func (b *Builder) WithDate(date time.Time) *Builder {
	b.payment.Date = date
	return b
}

// Build returns the payment.
func (b *Builder) Build() model.Payment {
	return b.payment
}
