package indicators

// TrendDirection classifies the EMA relationship on the latest bar.
type TrendDirection int

const (
	TrendUnknown TrendDirection = iota
	TrendNeutral
	TrendBullish
	TrendBearish
)

func (t TrendDirection) String() string {
	switch t {
	case TrendBullish:
		return "bullish"
	case TrendBearish:
		return "bearish"
	case TrendNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// ClassifyTrend compares the fast EMA against the slow EMA: bullish if
// fast is above, bearish if below, neutral on an exact tie.
func ClassifyTrend(emaFast, emaSlow float64) TrendDirection {
	switch {
	case emaFast > emaSlow:
		return TrendBullish
	case emaFast < emaSlow:
		return TrendBearish
	default:
		return TrendNeutral
	}
}
