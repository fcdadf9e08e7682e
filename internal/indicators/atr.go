package indicators

import (
	"math"

	"github.com/mexc-scalp-bot/pkg/types"
)

// ATR represents the Average True Range: a rolling mean of the true
// range over the configured period.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

// Calculate computes the ATR for the latest bar as the mean of the
// last 'period' true ranges. The first bar of the window has no prior
// close, so its true range degrades to high-low.
func (a *ATR) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < a.period || a.period < 1 {
		return 0, ErrInsufficientData
	}

	sum := 0.0
	for i := len(data) - a.period; i < len(data); i++ {
		sum += trueRange(data, i)
	}
	return sum / float64(a.period), nil
}

// trueRange computes max(high-low, |high-prevClose|, |low-prevClose|)
// for the bar at index i.
func trueRange(data []types.OHLCV, i int) float64 {
	c := data[i]
	hl := c.High - c.Low
	if i == 0 {
		return hl
	}
	prevClose := data[i-1].Close
	hc := math.Abs(c.High - prevClose)
	lc := math.Abs(c.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

// GetName returns the indicator name.
func (a *ATR) GetName() string {
	return "ATR"
}

// GetRequiredPeriods returns the minimum number of bars needed.
func (a *ATR) GetRequiredPeriods() int {
	return a.period
}
