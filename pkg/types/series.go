package types

import "errors"

// ErrMalformedSeries reports a candle window that cannot be analyzed:
// timestamps out of order or OHLC bounds inconsistent.
var ErrMalformedSeries = errors.New("malformed candle series")

// ValidateSeries checks that a candle window is usable for analysis.
// Timestamps must be strictly increasing, every candle must satisfy
// high >= max(open, close, low) and low <= min(open, close), and volume
// must be non-negative.
func ValidateSeries(data []OHLCV) error {
	for i, c := range data {
		if c.High < c.Open || c.High < c.Close || c.High < c.Low {
			return ErrMalformedSeries
		}
		if c.Low > c.Open || c.Low > c.Close {
			return ErrMalformedSeries
		}
		if c.Volume < 0 {
			return ErrMalformedSeries
		}
		if i > 0 && !data[i-1].Timestamp.Before(c.Timestamp) {
			return ErrMalformedSeries
		}
	}
	return nil
}

// Closes extracts the close price series from a candle window.
func Closes(data []OHLCV) []float64 {
	out := make([]float64, len(data))
	for i, c := range data {
		out[i] = c.Close
	}
	return out
}
