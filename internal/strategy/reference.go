package strategy

import (
	"github.com/mexc-scalp-bot/internal/indicators"
)

// AnalyzeReferenceTrend reduces a reference-asset snapshot (typically
// BTC on the long timeframe) to a market bias. The EMA trend leads and
// the long-period RSI must not contradict it; a missing RSI counts as
// neutral 50 so a short warmup window does not block the bias.
func AnalyzeReferenceTrend(snap *indicators.Snapshot) indicators.TrendDirection {
	if snap == nil {
		return indicators.TrendNeutral
	}

	rsi := 50.0
	if snap.RSILong != nil {
		rsi = *snap.RSILong
	}

	switch {
	case snap.Trend == indicators.TrendBullish && rsi > 40:
		return indicators.TrendBullish
	case snap.Trend == indicators.TrendBearish && rsi < 60:
		return indicators.TrendBearish
	default:
		return indicators.TrendNeutral
	}
}
