package collector

import (
	"fmt"
	"log"

	"ImpulseRadar/internal/model"
)

// ProbeResult is the outcome of walking a symbol's ticker list. Either Bars
// is non-empty and Ticker names the source that delivered it, or Reason
// explains the last failure.
type ProbeResult struct {
	Ticker   string
	Bars     []model.Candle
	Attempts int
	Reason   string
}

// OK reports whether the probe produced a usable series.
func (r ProbeResult) OK() bool { return len(r.Bars) > 0 }

// Probe tries each ticker in order until one returns a non-empty candle
// series, making up to maxAttempts requests per ticker. Unusable bars are
// dropped before the series is judged, so a ticker that only returns null
// rows counts as a miss.
func Probe(f Fetcher, tickers []string, interval, lookback string, maxAttempts int) ProbeResult {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	res := ProbeResult{Reason: "no tickers configured"}
	for _, ticker := range tickers {
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			res.Attempts++
			bars, err := f.FetchBars(ticker, interval, lookback)
			if err != nil {
				res.Reason = fmt.Sprintf("%s: %v", ticker, err)
				log.Printf("[WARN] probe %s attempt %d/%d: %v", ticker, attempt, maxAttempts, err)
				continue
			}
			bars = model.DropUnusable(bars)
			if len(bars) == 0 {
				res.Reason = fmt.Sprintf("%s: no usable bars", ticker)
				log.Printf("[WARN] probe %s attempt %d/%d: no usable bars", ticker, attempt, maxAttempts)
				continue
			}
			res.Ticker = ticker
			res.Bars = bars
			res.Reason = ""
			return res
		}
	}
	return res
}
