package collector

import "ImpulseRadar/internal/model"

// Fetcher abstracts market data retrieval so the scanner can run against
// Yahoo Finance, Twelve Data or canned data without changes.
type Fetcher interface {
	// FetchBars returns the candle series for one provider ticker, oldest
	// bar first. Interval and lookback use chart-style notation, e.g.
	// interval "15m" and lookback "5d".
	FetchBars(ticker, interval, lookback string) ([]model.Candle, error)
	Name() string
}
