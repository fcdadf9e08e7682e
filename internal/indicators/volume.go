package indicators

import (
	"github.com/mexc-scalp-bot/pkg/types"
)

// DetectVolumeSpike reports whether the latest bar's volume exceeds
// multiplier times the mean volume of the lookback bars immediately
// preceding it. Returns false when fewer than lookback+1 bars exist.
func DetectVolumeSpike(data []types.OHLCV, multiplier float64, lookback int) bool {
	if lookback < 1 || len(data) < lookback+1 {
		return false
	}

	current := data[len(data)-1].Volume
	sum := 0.0
	for i := len(data) - 1 - lookback; i < len(data)-1; i++ {
		sum += data[i].Volume
	}
	avg := sum / float64(lookback)

	return current > avg*multiplier
}
