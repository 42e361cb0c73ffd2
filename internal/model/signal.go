package model

import "time"

// Direction is the trade bias of a signal.
type Direction string

const (
	DirectionBuy     Direction = "Buy"
	DirectionSell    Direction = "Sell"
	DirectionNeutral Direction = "Neutral"
)

// Wave labels the character of the recent move.
type Wave string

const (
	WaveImpulse    Wave = "Impulse"
	WaveCorrection Wave = "Correction"
)

// Session is the coarse trading session derived from the UTC hour.
// Display only, never used for classification.
type Session string

const (
	SessionAsia    Session = "Asia"
	SessionLondon  Session = "London"
	SessionNewYork Session = "NY"
)

// Signal is the classifier's verdict for one candle series.
type Signal struct {
	Direction Direction
	Wave      Wave
	Score     int     // strength 0..5 from run/breakout/volume components
	MovePct   float64 // close change over the classification window, percent
	Reason    string
	// InsufficientData marks a Neutral/Correction verdict that was forced by
	// a too-short series rather than computed from it.
	InsufficientData bool
}

// SymbolReport is the outcome of scanning one configured symbol.
type SymbolReport struct {
	Symbol    string
	Ticker    string // ticker that actually returned data
	Signal    *Signal
	HTFBias   Direction // higher-timeframe bias, Neutral when the filter is off
	Final     Direction // short-term direction combined with HTFBias
	LastClose float64
	Session   Session
	// FailReason is set when no ticker produced data; Signal is nil then.
	FailReason string
}

// Failed reports whether the symbol produced no classifiable data.
func (r *SymbolReport) Failed() bool { return r.Signal == nil }

// RunSummary aggregates one full scan cycle.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Session   Session
	Reports   []*SymbolReport
	Delivered int // notifier sends that succeeded across the run
	Failures  int // notifier sends that failed
}

// FailedSymbols counts symbols that produced no data.
func (s *RunSummary) FailedSymbols() int {
	n := 0
	for _, r := range s.Reports {
		if r.Failed() {
			n++
		}
	}
	return n
}
