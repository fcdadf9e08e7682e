package indicators

import (
	"math"

	"github.com/mexc-scalp-bot/pkg/types"
)

// Pattern identifies a candlestick formation on the latest bar(s).
type Pattern int

const (
	PatternDoji Pattern = iota
	PatternHammer
	PatternInvertedHammer
	PatternBullishEngulfing
	PatternBearishEngulfing
	PatternBullishPinbar
	PatternBearishPinbar
)

func (p Pattern) String() string {
	switch p {
	case PatternDoji:
		return "doji"
	case PatternHammer:
		return "hammer"
	case PatternInvertedHammer:
		return "inverted_hammer"
	case PatternBullishEngulfing:
		return "bullish_engulfing"
	case PatternBearishEngulfing:
		return "bearish_engulfing"
	case PatternBullishPinbar:
		return "bullish_pinbar"
	case PatternBearishPinbar:
		return "bearish_pinbar"
	default:
		return "unknown"
	}
}

// PatternSet is the set of patterns detected on a window.
type PatternSet map[Pattern]bool

// Has reports whether the pattern was detected.
func (s PatternSet) Has(p Pattern) bool {
	return s[p]
}

// Names returns the string tags of all detected patterns.
func (s PatternSet) Names() []string {
	out := make([]string, 0, len(s))
	for p := PatternDoji; p <= PatternBearishPinbar; p++ {
		if s[p] {
			out = append(out, p.String())
		}
	}
	return out
}

// DetectPatterns classifies the latest candle (and its predecessor for
// the engulfing pair). Windows shorter than three bars yield an empty
// set.
func DetectPatterns(data []types.OHLCV) PatternSet {
	patterns := make(PatternSet)
	if len(data) < 3 {
		return patterns
	}

	current := data[len(data)-1]
	previous := data[len(data)-2]

	if IsDoji(current) {
		patterns[PatternDoji] = true
	}
	if IsHammer(current) {
		patterns[PatternHammer] = true
	}
	if IsInvertedHammer(current) {
		patterns[PatternInvertedHammer] = true
	}
	if IsBullishEngulfing(previous, current) {
		patterns[PatternBullishEngulfing] = true
	}
	if IsBearishEngulfing(previous, current) {
		patterns[PatternBearishEngulfing] = true
	}
	if IsBullishPinbar(current) {
		patterns[PatternBullishPinbar] = true
	}
	if IsBearishPinbar(current) {
		patterns[PatternBearishPinbar] = true
	}

	return patterns
}

func body(c types.OHLCV) float64 {
	return math.Abs(c.Close - c.Open)
}

func lowerShadow(c types.OHLCV) float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

func upperShadow(c types.OHLCV) float64 {
	return c.High - math.Max(c.Open, c.Close)
}

// IsDoji reports a candle whose body is at most 10% of its range.
func IsDoji(c types.OHLCV) bool {
	return body(c) <= (c.High-c.Low)*0.1
}

// IsHammer reports a long lower shadow with a small upper shadow.
func IsHammer(c types.OHLCV) bool {
	b := body(c)
	return lowerShadow(c) >= b*2 && upperShadow(c) <= b*0.5 && b > 0
}

// IsInvertedHammer reports a long upper shadow with a small lower shadow.
func IsInvertedHammer(c types.OHLCV) bool {
	b := body(c)
	return upperShadow(c) >= b*2 && lowerShadow(c) <= b*0.5 && b > 0
}

// IsBullishEngulfing reports a bullish candle whose body fully contains
// the preceding bearish body.
func IsBullishEngulfing(prev, current types.OHLCV) bool {
	prevBearish := prev.Close < prev.Open
	currentBullish := current.Close > current.Open
	engulfs := current.Open < prev.Close && current.Close > prev.Open
	return prevBearish && currentBullish && engulfs
}

// IsBearishEngulfing reports a bearish candle whose body fully contains
// the preceding bullish body.
func IsBearishEngulfing(prev, current types.OHLCV) bool {
	prevBullish := prev.Close > prev.Open
	currentBearish := current.Close < current.Open
	engulfs := current.Open > prev.Close && current.Close < prev.Open
	return prevBullish && currentBearish && engulfs
}

// IsBullishPinbar reports a candle dominated by its lower shadow.
func IsBullishPinbar(c types.OHLCV) bool {
	r := c.High - c.Low
	return lowerShadow(c) >= r*0.6 && body(c) <= r*0.3 && upperShadow(c) <= r*0.2
}

// IsBearishPinbar reports a candle dominated by its upper shadow.
func IsBearishPinbar(c types.OHLCV) bool {
	r := c.High - c.Low
	return upperShadow(c) >= r*0.6 && body(c) <= r*0.3 && lowerShadow(c) <= r*0.2
}
