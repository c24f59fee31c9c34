package contract

import (
	"context"

	"github.com/huangsam/dealflow/schema"
	"github.com/stretchr/testify/mock"
)

// MockDealFetcher is a mock implementation of DealFetcher for testing.
type MockDealFetcher struct {
	mock.Mock
}

var _ DealFetcher = &MockDealFetcher{} // Compile-time check

// FetchDeals implements the DealFetcher interface.
func (m *MockDealFetcher) FetchDeals(ctx context.Context) ([]schema.Deal, error) {
	ret := m.Called(ctx)
	deals, _ := ret.Get(0).([]schema.Deal)
	return deals, ret.Error(1)
}

// MockLogFetcher is a mock implementation of LogFetcher for testing.
type MockLogFetcher struct {
	mock.Mock
}

var _ LogFetcher = &MockLogFetcher{} // Compile-time check

// FetchLogPage implements the LogFetcher interface.
func (m *MockLogFetcher) FetchLogPage(ctx context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error) {
	ret := m.Called(ctx, q)
	entries, _ := ret.Get(0).([]schema.RawLogEntry)
	return entries, ret.Error(1)
}
