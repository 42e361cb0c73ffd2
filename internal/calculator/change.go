package calculator

import (
	"errors"

	"ImpulseRadar/internal/model"
)

// ErrZeroReference is returned when a percent change would divide by a zero price.
var ErrZeroReference = errors.New("zero reference price")

// PercentChange returns the change from first to last as a percentage of first.
func PercentChange(first, last float64) (float64, error) {
	if first == 0 {
		return 0, ErrZeroReference
	}
	return (last - first) / first * 100, nil
}

// MonotonicClosesUp reports whether closes rise strictly across the whole window.
func MonotonicClosesUp(bars []model.Candle) bool {
	if len(bars) < 2 {
		return false
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Close <= bars[i-1].Close {
			return false
		}
	}
	return true
}

// MonotonicClosesDown reports whether closes fall strictly across the whole window.
func MonotonicClosesDown(bars []model.Candle) bool {
	if len(bars) < 2 {
		return false
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Close >= bars[i-1].Close {
			return false
		}
	}
	return true
}

// BodyDirection returns +1 for an up candle, -1 for a down candle, 0 for a doji.
func BodyDirection(bar model.Candle) int {
	switch {
	case bar.Close > bar.Open:
		return 1
	case bar.Close < bar.Open:
		return -1
	default:
		return 0
	}
}

// TrailingRun counts how many of the most recent candles share the direction of
// the last candle's body. A neutral last bar yields a zero-length run.
func TrailingRun(bars []model.Candle) (length, direction int) {
	if len(bars) == 0 {
		return 0, 0
	}
	direction = BodyDirection(bars[len(bars)-1])
	if direction == 0 {
		return 0, 0
	}
	length = 1
	for i := len(bars) - 2; i >= 0; i-- {
		if BodyDirection(bars[i]) != direction {
			break
		}
		length++
	}
	return length, direction
}
