package indicators

import (
	"github.com/mexc-scalp-bot/pkg/types"
)

// RSI calculates the Relative Strength Index using Wilder's smoothing.
type RSI struct {
	period int
}

// NewRSI creates a new RSI instance with the given period.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Calculate computes the RSI value for the latest bar of the window.
// The first average gain/loss pair is a simple mean over the initial
// period, subsequent bars are smoothed Wilder-style. The result is
// always within [0, 100].
func (r *RSI) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < r.period+1 {
		return 0, ErrInsufficientData
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= r.period; i++ {
		change := data[i].Close - data[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)

	for i := r.period + 1; i < len(data); i++ {
		change := data[i].Close - data[i-1].Close
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)
	}

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))

	if rsi < 0 {
		rsi = 0
	} else if rsi > 100 {
		rsi = 100
	}
	return rsi, nil
}

// GetName returns the indicator name.
func (r *RSI) GetName() string {
	return "RSI"
}

// GetRequiredPeriods returns the minimum number of bars needed.
func (r *RSI) GetRequiredPeriods() int {
	return r.period + 1
}
