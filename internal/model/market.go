package model

import "time"

// Candle represents a single OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// SymbolConfig describes one scanned instrument: a friendly name and the
// tickers tried in order until one returns data.
type SymbolConfig struct {
	Name     string   `yaml:"name"`
	Tickers  []string `yaml:"tickers"`
	Interval string   `yaml:"interval"`
	Lookback string   `yaml:"lookback"`
}

// Closes extracts the close prices from a candle series, preserving order.
func Closes(bars []Candle) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// DropUnusable removes bars whose close is zero or negative (null rows some
// providers emit for holidays). Order is preserved.
func DropUnusable(bars []Candle) []Candle {
	out := make([]Candle, 0, len(bars))
	for _, b := range bars {
		if b.Close > 0 {
			out = append(out, b)
		}
	}
	return out
}
