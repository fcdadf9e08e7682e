package indicators

import (
	"github.com/mexc-scalp-bot/pkg/types"
)

// SupportResistance returns the most recent fully-centered rolling
// extremes of low/high over the given window: the minimum low and
// maximum high across the last 'window' bars. When the series is still
// shorter than the window, the global extremes of the whole series are
// used instead.
func SupportResistance(data []types.OHLCV, window int) (support, resistance float64, err error) {
	if len(data) == 0 || window < 1 {
		return 0, 0, ErrInsufficientData
	}

	start := 0
	if len(data) >= window {
		start = len(data) - window
	}

	support = data[start].Low
	resistance = data[start].High
	for _, c := range data[start:] {
		if c.Low < support {
			support = c.Low
		}
		if c.High > resistance {
			resistance = c.High
		}
	}
	return support, resistance, nil
}

// RangeExtremes returns the highest high and lowest low over the last
// 'lookback' bars (or the whole series when shorter).
func RangeExtremes(data []types.OHLCV, lookback int) (high, low float64, err error) {
	if len(data) == 0 {
		return 0, 0, ErrInsufficientData
	}

	start := 0
	if len(data) > lookback {
		start = len(data) - lookback
	}

	high = data[start].High
	low = data[start].Low
	for _, c := range data[start:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low, nil
}
