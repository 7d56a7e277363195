package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MockPriceSource is a mock implementation of service.PriceSource for testing.
// It returns predefined prices per ticker instead of calling Yahoo Finance.
// Unknown tickers fail with an error.
type MockPriceSource struct {
	mu     sync.Mutex
	prices map[string]float64
	errs   map[string]error
	calls  map[string]int
}

// NewMockPriceSource creates a mock price source with no prices configured.
func NewMockPriceSource() *MockPriceSource {
	return &MockPriceSource{
		prices: make(map[string]float64),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

// WithPrice configures the price returned for ticker.
func (m *MockPriceSource) WithPrice(ticker string, price float64) *MockPriceSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[ticker] = price
	return m
}

// WithError configures the error returned for ticker.
func (m *MockPriceSource) WithError(ticker string, err error) *MockPriceSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[ticker] = err
	return m
}

// LatestPrice returns the configured price or error for ticker.
func (m *MockPriceSource) LatestPrice(ctx context.Context, ticker string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[ticker]++
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err, ok := m.errs[ticker]; ok {
		return 0, err
	}
	price, ok := m.prices[ticker]
	if !ok {
		return 0, fmt.Errorf("no price for %s", ticker)
	}
	return price, nil
}

// Calls returns how many times ticker was looked up.
func (m *MockPriceSource) Calls(ticker string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[ticker]
}

// TotalCalls returns the number of lookups across all tickers.
func (m *MockPriceSource) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}
