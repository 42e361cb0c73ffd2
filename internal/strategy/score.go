package strategy

import (
	"fmt"
	"strings"

	"ImpulseRadar/internal/calculator"
	"ImpulseRadar/internal/model"
)

const (
	// scoreWindow bounds how many trailing bars the strength score inspects.
	scoreWindow = 6
	// breakoutWindow bounds how many prior bars a breakout is checked against.
	breakoutWindow = 5
)

// impulseScore grades the strength of the latest move on a 0..5 scale:
// a trailing run of three or more same-direction candle bodies (+2), a close
// beyond the prior bars' extreme (+2), and volume above the mean of the last
// three bars (+1). The returned detail lists the components that fired.
func impulseScore(bars []model.Candle) (int, string) {
	if len(bars) == 0 {
		return 0, ""
	}
	recent := bars
	if len(recent) > scoreWindow {
		recent = recent[len(recent)-scoreWindow:]
	}

	run, dir := calculator.TrailingRun(recent)
	if dir == 0 {
		return 0, "last bar neutral"
	}

	score := 0
	var parts []string

	if run >= 3 {
		score += 2
		word := "UP"
		if dir < 0 {
			word = "DOWN"
		}
		parts = append(parts, fmt.Sprintf("%d consecutive bars %s", run, word))
	}

	direction := model.DirectionBuy
	if dir < 0 {
		direction = model.DirectionSell
	}
	if breakout(recent, direction) {
		score += 2
		if dir > 0 {
			parts = append(parts, "breaks prior high")
		} else {
			parts = append(parts, "breaks prior low")
		}
	} else {
		parts = append(parts, "no breakout")
	}

	if risingVolume(recent) {
		score++
		parts = append(parts, "rising volume")
	}

	return score, strings.Join(parts, "; ")
}

// breakout reports whether the newest close exceeds the prior bars' high (Buy)
// or undercuts their low (Sell).
func breakout(bars []model.Candle, direction model.Direction) bool {
	high, low, err := calculator.PriorRange(bars, breakoutWindow)
	if err != nil {
		return false
	}
	last := bars[len(bars)-1].Close
	switch direction {
	case model.DirectionBuy:
		return last > high
	case model.DirectionSell:
		return last < low
	default:
		return false
	}
}

// risingVolume reports whether the newest bar's volume exceeds the mean of the
// last three bars.
func risingVolume(bars []model.Candle) bool {
	if len(bars) < 3 {
		return false
	}
	tail := bars[len(bars)-3:]
	mean := (tail[0].Volume + tail[1].Volume + tail[2].Volume) / 3
	return tail[2].Volume > mean
}
