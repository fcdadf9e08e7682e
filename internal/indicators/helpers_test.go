package indicators

import (
	"time"

	"github.com/mexc-scalp-bot/pkg/types"
)

var testStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// generateTestData creates n candles with mildly rising closes.
func generateTestData(n int) []types.OHLCV {
	data := make([]types.OHLCV, n)
	for i := 0; i < n; i++ {
		close := 100.0 + float64(i)*0.5
		data[i] = types.OHLCV{
			Open:      close - 0.2,
			High:      close + 1.0,
			Low:       close - 1.0,
			Close:     close,
			Volume:    1000.0,
			Timestamp: testStart.Add(time.Duration(i) * time.Minute),
		}
	}
	return data
}

// generateFlatData creates n identical candles closing at 100.
func generateFlatData(n int) []types.OHLCV {
	data := make([]types.OHLCV, n)
	for i := 0; i < n; i++ {
		data[i] = types.OHLCV{
			Open:      100.0,
			High:      105.0,
			Low:       95.0,
			Close:     100.0,
			Volume:    1000.0,
			Timestamp: testStart.Add(time.Duration(i) * time.Minute),
		}
	}
	return data
}

// seriesFromCloses builds a candle series around the given closes, with
// unit volume and a small symmetric range.
func seriesFromCloses(closes ...float64) []types.OHLCV {
	data := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		data[i] = types.OHLCV{
			Open:      c,
			High:      c + 1.0,
			Low:       c - 1.0,
			Close:     c,
			Volume:    1000.0,
			Timestamp: testStart.Add(time.Duration(i) * time.Minute),
		}
	}
	return data
}

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
