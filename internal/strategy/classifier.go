package strategy

import (
	"fmt"
	"math"

	"ImpulseRadar/internal/calculator"
	"ImpulseRadar/internal/model"
)

const (
	defaultMinBars      = 3
	defaultWindow       = 3
	defaultThresholdPct = 0.5
)

// Options tunes the classifier. Zero values fall back to the defaults.
type Options struct {
	MinBars      int     // bars required before classifying at all
	Window       int     // closes considered for the directional measure
	ThresholdPct float64 // minimum |move| in percent for a non-neutral verdict
}

func (o Options) withDefaults() Options {
	if o.MinBars <= 0 {
		o.MinBars = defaultMinBars
	}
	if o.Window <= 0 {
		o.Window = defaultWindow
	}
	if o.ThresholdPct <= 0 {
		o.ThresholdPct = defaultThresholdPct
	}
	if o.MinBars < o.Window {
		o.MinBars = o.Window
	}
	return o
}

// Classify labels a candle series as Impulse or Correction with a Buy, Sell or
// Neutral bias. The rule: take the percent change of the close over the last
// Window bars; below the threshold the verdict is Neutral/Correction, above it
// the direction follows the sign of the move, and the wave is Impulse only when
// the move has follow-through (strictly monotonic closes across the window, or
// a close beyond the prior bars' extreme).
//
// The function is pure and total: identical input yields identical output, and
// no series, however short or malformed, makes it panic.
func Classify(bars []model.Candle, opts Options) *model.Signal {
	opts = opts.withDefaults()

	if len(bars) < opts.MinBars {
		return &model.Signal{
			Direction:        model.DirectionNeutral,
			Wave:             model.WaveCorrection,
			Reason:           "insufficient data",
			InsufficientData: true,
		}
	}

	window := bars[len(bars)-opts.Window:]
	movePct, err := calculator.PercentChange(window[0].Close, window[len(window)-1].Close)
	if err != nil {
		// A zero reference close should not occur for a real instrument,
		// but it must not crash the scan.
		return &model.Signal{
			Direction: model.DirectionNeutral,
			Wave:      model.WaveCorrection,
			Reason:    "zero reference price",
		}
	}

	score, detail := impulseScore(bars)

	if math.Abs(movePct) < opts.ThresholdPct {
		return &model.Signal{
			Direction: model.DirectionNeutral,
			Wave:      model.WaveCorrection,
			Score:     score,
			MovePct:   movePct,
			Reason:    fmt.Sprintf("move %+.2f%% below threshold %.2f%%", movePct, opts.ThresholdPct),
		}
	}

	direction := model.DirectionBuy
	if movePct < 0 {
		direction = model.DirectionSell
	}

	wave := model.WaveCorrection
	reason := fmt.Sprintf("move %+.2f%% without follow-through", movePct)
	if followThrough(bars, window, direction) {
		wave = model.WaveImpulse
		reason = fmt.Sprintf("move %+.2f%% over %d bars", movePct, opts.Window)
	}
	if detail != "" {
		reason += "; " + detail
	}

	return &model.Signal{
		Direction: direction,
		Wave:      wave,
		Score:     score,
		MovePct:   movePct,
		Reason:    reason,
	}
}

// followThrough reports whether an above-threshold move is consistent enough
// to call an impulse: monotonic closes across the window, or a breakout past
// the prior bars' high/low in the move's direction.
func followThrough(bars, window []model.Candle, direction model.Direction) bool {
	if direction == model.DirectionBuy && calculator.MonotonicClosesUp(window) {
		return true
	}
	if direction == model.DirectionSell && calculator.MonotonicClosesDown(window) {
		return true
	}
	return breakout(bars, direction)
}
