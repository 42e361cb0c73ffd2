package strategy

import (
	"ImpulseRadar/internal/calculator"
	"ImpulseRadar/internal/model"
)

// HigherTimeframeBias derives a directional bias from a larger-interval series
// by comparing the latest close against its simple moving average. Too few bars
// or a close sitting exactly on the average yields Neutral.
func HigherTimeframeBias(bars []model.Candle, period int) model.Direction {
	sma, err := calculator.CalculateSMA(model.Closes(bars), period)
	if err != nil {
		return model.DirectionNeutral
	}
	last := bars[len(bars)-1].Close
	switch {
	case last > sma:
		return model.DirectionBuy
	case last < sma:
		return model.DirectionSell
	default:
		return model.DirectionNeutral
	}
}

// CombineBias merges the short-term direction with the higher-timeframe bias.
// A neutral side defers to the other; when both have an opinion and they
// disagree, the higher timeframe wins.
func CombineBias(short, htf model.Direction) model.Direction {
	switch {
	case short == model.DirectionNeutral:
		return htf
	case htf == model.DirectionNeutral:
		return short
	case short == htf:
		return short
	default:
		return htf
	}
}
