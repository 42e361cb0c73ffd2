package collector

import (
	"time"

	"ImpulseRadar/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Canned series are keyed by ticker; tickers without one fall back to a
// generated drift around Price when it is set.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.Candle
	Errs  map[string]error
	Calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(ticker, interval, lookback string) ([]model.Candle, error) {
	m.Calls = append(m.Calls, ticker)
	if err, ok := m.Errs[ticker]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[ticker]; ok {
		return bars, nil
	}
	if m.Price > 0 {
		return generateMockBars(m.Price, 30), nil
	}
	return nil, nil
}

func generateMockBars(basePrice float64, count int) []model.Candle {
	bars := make([]model.Candle, count)
	start := time.Now().UTC().Add(-time.Duration(count) * 15 * time.Minute)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Candle{
			Time:   start.Add(time.Duration(i) * 15 * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
