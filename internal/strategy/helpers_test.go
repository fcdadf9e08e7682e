package strategy

import (
	"time"

	"github.com/mexc-scalp-bot/pkg/types"
)

var testStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

func candle(open, high, low, close, volume float64, i int) types.OHLCV {
	return types.OHLCV{
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
		Timestamp: testStart.Add(time.Duration(i) * time.Minute),
	}
}

// flatSeries builds n candles closing at 100 inside a 95..105 range.
func flatSeries(n int) []types.OHLCV {
	data := make([]types.OHLCV, n)
	for i := 0; i < n; i++ {
		data[i] = candle(100, 105, 95, 100, 1000, i)
	}
	return data
}

func seriesFromCloses(closes ...float64) []types.OHLCV {
	data := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		data[i] = candle(c, c+1, c-1, c, 1000, i)
	}
	return data
}
