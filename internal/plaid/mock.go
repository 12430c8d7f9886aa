package plaid

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
)

// MockClient is a PaymentFetcher for tests.
type MockClient struct {
	GetPaymentsFn    func(ctx context.Context, startDate, endDate time.Time) ([]model.Payment, error)
	GetPaymentsCalls []GetPaymentsCall
	mu               sync.Mutex
}

// GetPaymentsCall records the parameters of a GetPayments call.
type GetPaymentsCall struct {
	StartDate time.Time
	EndDate   time.Time
}

// NewMockClient creates a new mock Plaid client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// GetPayments records the call and delegates to GetPaymentsFn when set.
func (m *MockClient) GetPayments(ctx context.Context, startDate, endDate time.Time) ([]model.Payment, error) {
	m.mu.Lock()
	m.GetPaymentsCalls = append(m.GetPaymentsCalls, GetPaymentsCall{StartDate: startDate, EndDate: endDate})
	fn := m.GetPaymentsFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, startDate, endDate)
	}
	return []model.Payment{}, nil
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPaymentsCalls = nil
}

var _ service.PaymentFetcher = (*MockClient)(nil)
