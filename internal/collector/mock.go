package collector

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"QuantSuite/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without explicit bars get a generated series around Price.
type MockFetcher struct {
	Price float64
	Count int
	Bars  map[string][]model.OHLCV
	Live  map[string]float64
	Fail  map[string]error
	Delay time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many fetches were made for symbol.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func (m *MockFetcher) record(ctx context.Context, symbol string) error {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := m.Fail[symbol]; err != nil {
		return err
	}
	return nil
}

func (m *MockFetcher) FetchHistory(ctx context.Context, symbol string, _ model.Period) ([]model.OHLCV, error) {
	if err := m.record(ctx, symbol); err != nil {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		if len(bars) == 0 {
			return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
		}
		return append([]model.OHLCV(nil), bars...), nil
	}
	count := m.Count
	if count == 0 {
		count = 120
	}
	return GenerateBars(m.Price, count), nil
}

func (m *MockFetcher) FetchLivePrice(ctx context.Context, symbol string) (float64, error) {
	if err := m.record(ctx, symbol); err != nil {
		return 0, err
	}
	if p, ok := m.Live[symbol]; ok {
		return p, nil
	}
	if bars, ok := m.Bars[symbol]; ok && len(bars) > 0 {
		return bars[len(bars)-1].Close, nil
	}
	if m.Price == 0 {
		return 0, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
	}
	return m.Price, nil
}

// GenerateBars builds a deterministic gently rising, oscillating daily series.
func GenerateBars(basePrice float64, count int) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.01*math.Sin(float64(i)/5))
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + float64(i%7)*50000,
		}
	}
	return bars
}
