package calculator

import (
	"errors"
	"math"

	"ImpulseRadar/internal/model"
)

// PriorRange scans up to window bars preceding the newest one and returns
// their high and low. Used for breakout checks against the latest close.
func PriorRange(bars []model.Candle, window int) (high, low float64, err error) {
	if len(bars) < 2 {
		return 0, 0, errors.New("need at least two bars for a prior range")
	}
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	end := len(bars) - 1 // exclude the newest bar
	start := end - window
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < end; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}
