package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidFilter    = errors.New("invalid saved filter")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validatePayments(payments []model.Payment) error {
	if payments == nil {
		return fmt.Errorf("%w: payments", ErrNilParameter)
	}
	if len(payments) == 0 {
		return fmt.Errorf("%w: payments", ErrEmptySlice)
	}

	for i := range payments {
		if err := payments[i].Validate(); err != nil {
			return fmt.Errorf("payment at index %d: %w: %w", i, common.ErrInvalidPayment, err)
		}
	}
	return nil
}

func validateSavedFilter(f *model.SavedFilter) error {
	if err := validateString(f.ID, "id"); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	if f.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing creation time", ErrInvalidFilter)
	}
	return nil
}
