package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Payment represents a single payment record supplied by a record source.
// The filtering core treats payments as read-only.
type Payment struct {
	Date          time.Time       `validate:"required"`
	Amount        decimal.Decimal
	ID            string          `validate:"required"`
	Currency      string          `validate:"required,iso4217"`
	Status        string          `validate:"required"`
	Description   string
	Email         string          `validate:"omitempty,email"`
	PaymentMethod string          `validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks that a payment from an external source is well formed.
func (p *Payment) Validate() error {
	if err := validatorInstance().Struct(p); err != nil {
		return fmt.Errorf("invalid payment %q: %w", p.ID, err)
	}
	if p.Amount.IsNegative() {
		return fmt.Errorf("invalid payment %q: amount %s is negative", p.ID, p.Amount)
	}
	return nil
}
