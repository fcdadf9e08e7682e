package indicators

import (
	"github.com/mexc-scalp-bot/pkg/types"
)

// EMA represents the Exponential Moving Average of the close price.
type EMA struct {
	period int
	alpha  float64
}

// NewEMA creates a new EMA indicator.
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

// Calculate computes the EMA value for the latest bar. The first
// 'period' closes seed the average as an SMA, the remaining bars are
// smoothed exponentially. With period 1 the result equals the latest
// close exactly.
func (e *EMA) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < e.period {
		return 0, ErrInsufficientData
	}

	sum := 0.0
	for i := 0; i < e.period; i++ {
		sum += data[i].Close
	}
	ema := sum / float64(e.period)

	for i := e.period; i < len(data); i++ {
		ema = data[i].Close*e.alpha + ema*(1-e.alpha)
	}

	return ema, nil
}

// GetName returns the indicator name.
func (e *EMA) GetName() string {
	return "EMA"
}

// GetRequiredPeriods returns the minimum number of bars needed.
func (e *EMA) GetRequiredPeriods() int {
	return e.period
}
