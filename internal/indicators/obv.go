package indicators

import (
	"github.com/mexc-scalp-bot/pkg/types"
)

// OBVTrend is the short-term direction of the On-Balance Volume line.
type OBVTrend int

const (
	OBVTrendNone OBVTrend = iota
	OBVTrendRising
	OBVTrendFalling
)

func (t OBVTrend) String() string {
	switch t {
	case OBVTrendRising:
		return "rising"
	case OBVTrendFalling:
		return "falling"
	default:
		return "none"
	}
}

// OBV represents the On-Balance Volume indicator: cumulative volume
// added when the close rises versus the previous bar, subtracted when
// it falls, unchanged on a tie.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() *OBV {
	return &OBV{}
}

// Calculate computes the OBV value for the latest bar.
func (o *OBV) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < 2 {
		return 0, ErrInsufficientData
	}
	series := o.series(data)
	return series[len(series)-1], nil
}

// Trend compares the latest OBV value with the prior one. A tie counts
// as falling.
func (o *OBV) Trend(data []types.OHLCV) (OBVTrend, error) {
	if len(data) < 2 {
		return OBVTrendNone, ErrInsufficientData
	}
	series := o.series(data)
	if series[len(series)-1] > series[len(series)-2] {
		return OBVTrendRising, nil
	}
	return OBVTrendFalling, nil
}

// series builds the full OBV line, one value per bar, starting at zero.
func (o *OBV) series(data []types.OHLCV) []float64 {
	out := make([]float64, len(data))
	for i := 1; i < len(data); i++ {
		out[i] = out[i-1]
		if data[i].Close > data[i-1].Close {
			out[i] += data[i].Volume
		} else if data[i].Close < data[i-1].Close {
			out[i] -= data[i].Volume
		}
	}
	return out
}

// GetName returns the indicator name.
func (o *OBV) GetName() string {
	return "OBV"
}

// GetRequiredPeriods returns the minimum number of bars needed.
func (o *OBV) GetRequiredPeriods() int {
	return 2
}
