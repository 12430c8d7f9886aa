// Package service defines the contracts between the filtering core and the
// persistence, record-source and export layers.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/payfilter/internal/model"
)

// PaymentQuery narrows a payment listing at the storage layer. Filtering by
// FilterState happens in memory after the query.
type PaymentQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// SavedFilterStore persists saved filters in append order.
// Implementations must be safe for concurrent use.
type SavedFilterStore interface {
	AppendFilter(ctx context.Context, f model.SavedFilter) error
	ListFilters(ctx context.Context) ([]model.SavedFilter, error)
	// GetFilter returns common.ErrNotFound when id is unknown.
	GetFilter(ctx context.Context, id string) (*model.SavedFilter, error)
	// DeleteFilter is a no-op when id is unknown.
	DeleteFilter(ctx context.Context, id string) error
}

// PaymentStorage persists payment records.
type PaymentStorage interface {
	// SavePayments inserts payments, ignoring IDs that already exist, and
	// reports how many were new.
	SavePayments(ctx context.Context, payments []model.Payment) (int, error)
	GetPayments(ctx context.Context, query PaymentQuery) ([]model.Payment, error)
	GetPaymentByID(ctx context.Context, id string) (*model.Payment, error)
	CountPayments(ctx context.Context) (int, error)
}

// Storage is the full persistence layer.
type Storage interface {
	PaymentStorage
	SavedFilterStore

	Migrate(ctx context.Context) error
	Close() error
}

// PaymentFetcher retrieves payments from a remote source.
type PaymentFetcher interface {
	GetPayments(ctx context.Context, start, end time.Time) ([]model.Payment, error)
}

// PaymentExporter writes a filtered payment table somewhere outside the process.
type PaymentExporter interface {
	Export(ctx context.Context, payments []model.Payment, summary ExportSummary) error
}

// ExportSummary describes the filter that produced an export.
type ExportSummary struct {
	GeneratedAt time.Time
	FilterLabel string
	ResultLabel string
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
