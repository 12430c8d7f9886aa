package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
)

// MockExporter is a PaymentExporter for tests.
type MockExporter struct {
	ExportFunc  func(ctx context.Context, payments []model.Payment, summary service.ExportSummary) error
	ExportCalls []ExportCall
	mu          sync.Mutex
}

// ExportCall represents a single call to Export.
type ExportCall struct {
	Error    error
	Summary  service.ExportSummary
	Payments []model.Payment
}

// NewMockExporter creates a new mock exporter.
func NewMockExporter() *MockExporter {
	return &MockExporter{}
}

// Export records the call and delegates to ExportFunc when set.
func (m *MockExporter) Export(ctx context.Context, payments []model.Payment, summary service.ExportSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.ExportFunc != nil {
		err = m.ExportFunc(ctx, payments, summary)
	}

	m.ExportCalls = append(m.ExportCalls, ExportCall{
		Payments: payments,
		Summary:  summary,
		Error:    err,
	})
	return err
}

// Calls returns a copy of all recorded calls.
func (m *MockExporter) Calls() []ExportCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]ExportCall, len(m.ExportCalls))
	copy(calls, m.ExportCalls)
	return calls
}

var _ service.PaymentExporter = (*MockExporter)(nil)
