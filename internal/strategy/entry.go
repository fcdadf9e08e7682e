package strategy

import (
	"fmt"

	"github.com/mexc-scalp-bot/internal/indicators"
	"github.com/mexc-scalp-bot/pkg/types"
)

// EntryConfig holds the thresholds for entry scoring. Every value is
// injectable per invocation so tests can exercise non-default setups.
type EntryConfig struct {
	RSIOversold   float64
	RSIOverbought float64

	// SupportProximityPct is how close (in percent) the price must be to
	// the long-timeframe support/resistance to score the level rule.
	SupportProximityPct float64

	// MinStrength is the score a direction must reach to emit a signal.
	MinStrength int
	// MaxStrength caps the reported strength. Eight rules can fire but
	// the signal scale stays 0..7.
	MaxStrength int

	FibLookback int
	FibRatios   [4]float64

	ATRPeriod     int
	ATRMultiplier float64
}

// DefaultEntryConfig mirrors the production thresholds.
func DefaultEntryConfig() EntryConfig {
	return EntryConfig{
		RSIOversold:         30,
		RSIOverbought:       70,
		SupportProximityPct: 2.0,
		MinStrength:         3,
		MaxStrength:         7,
		FibLookback:         20,
		FibRatios:           [4]float64{0.382, 0.618, 1.0, 1.618},
		ATRPeriod:           14,
		ATRMultiplier:       2.0,
	}
}

// Signal is a complete entry recommendation for one symbol and cycle.
// It is created fresh on every evaluation and never mutated.
type Signal struct {
	Direction types.Direction
	Strength  int
	Reasons   []string

	Price    float64
	Targets  types.FibTargets
	StopLoss float64

	// Context carried along for alert formatting.
	RSIShort    *float64
	RSILong     *float64
	VolumeSpike bool
	Patterns    []string

	Valid bool
}

// bullishEntryPatterns and bearishEntryPatterns are checked in order;
// only the first match scores, however many patterns are present.
var bullishEntryPatterns = []indicators.Pattern{
	indicators.PatternHammer,
	indicators.PatternBullishEngulfing,
	indicators.PatternBullishPinbar,
}

var bearishEntryPatterns = []indicators.Pattern{
	indicators.PatternInvertedHammer,
	indicators.PatternBearishEngulfing,
	indicators.PatternBearishPinbar,
}

// EntryScorer turns two-timeframe snapshots plus the reference-asset
// trend into a directional entry signal. Stateless.
type EntryScorer struct {
	cfg EntryConfig
}

// NewEntryScorer creates an entry scorer with the given configuration.
func NewEntryScorer(cfg EntryConfig) *EntryScorer {
	return &EntryScorer{cfg: cfg}
}

// ScoreEntry accumulates one point per matched rule for each direction,
// in a fixed order so the reasons list is deterministic, then emits a
// signal for the winning direction when its score reaches the minimum
// strength and strictly beats the other side. A tie emits no signal.
//
// The series arguments are the same windows the snapshots were computed
// from; they are needed for the Fibonacci range and the ATR stop.
func (s *EntryScorer) ScoreEntry(
	shortTF, longTF *indicators.Snapshot,
	refTrend indicators.TrendDirection,
	shortSeries, longSeries []types.OHLCV,
) *Signal {
	signal := &Signal{
		Direction:   types.DirectionNone,
		Price:       shortTF.Price,
		RSIShort:    shortTF.RSIShort,
		RSILong:     shortTF.RSILong,
		VolumeSpike: shortTF.VolumeSpike,
		Patterns:    shortTF.Patterns.Names(),
	}

	longScore, longReasons := s.scoreDirection(types.DirectionLong, shortTF, longTF, refTrend)
	shortScore, shortReasons := s.scoreDirection(types.DirectionShort, shortTF, longTF, refTrend)

	switch {
	case longScore >= s.cfg.MinStrength && longScore > shortScore:
		signal.Direction = types.DirectionLong
		signal.Strength = capStrength(longScore, s.cfg.MaxStrength)
		signal.Reasons = longReasons
	case shortScore >= s.cfg.MinStrength && shortScore > longScore:
		signal.Direction = types.DirectionShort
		signal.Strength = capStrength(shortScore, s.cfg.MaxStrength)
		signal.Reasons = shortReasons
	default:
		return signal
	}

	if high, low, err := indicators.RangeExtremes(longSeries, s.cfg.FibLookback); err == nil {
		signal.Targets = FibonacciTargets(high, low, signal.Direction, s.cfg.FibRatios)
	}
	if stop, err := ATRStopLoss(shortSeries, s.cfg.ATRPeriod, s.cfg.ATRMultiplier, signal.Direction); err == nil {
		signal.StopLoss = stop
	}

	signal.Valid = s.validate(signal)
	return signal
}

// scoreDirection runs the rule chain for one side. Both sides use the
// same rules mirrored, so long and short scoring stay symmetric.
func (s *EntryScorer) scoreDirection(
	dir types.Direction,
	shortTF, longTF *indicators.Snapshot,
	refTrend indicators.TrendDirection,
) (int, []string) {
	score := 0
	var reasons []string

	wantTrend := indicators.TrendBullish
	wantOBV := indicators.OBVTrendRising
	zone := "oversold"
	patterns := bullishEntryPatterns
	if dir == types.DirectionShort {
		wantTrend = indicators.TrendBearish
		wantOBV = indicators.OBVTrendFalling
		zone = "overbought"
		patterns = bearishEntryPatterns
	}

	// 1. Reference-asset trend agrees.
	if refTrend == wantTrend {
		score++
		reasons = append(reasons, fmt.Sprintf("reference trend %s", wantTrend))
	}

	// 2-3. Short-period then long-period RSI in the entry zone.
	if s.rsiInZone(shortTF.RSIShort, dir) {
		score++
		reasons = append(reasons, fmt.Sprintf("short RSI %s (%.1f)", zone, *shortTF.RSIShort))
	}
	if s.rsiInZone(shortTF.RSILong, dir) {
		score++
		reasons = append(reasons, fmt.Sprintf("long RSI %s (%.1f)", zone, *shortTF.RSILong))
	}

	// 4. Long-timeframe EMA trend agrees.
	if longTF.Trend == wantTrend {
		score++
		reasons = append(reasons, fmt.Sprintf("EMA trend %s on long timeframe", wantTrend))
	}

	// 5. OBV flowing with the direction.
	if shortTF.OBVTrend == wantOBV {
		score++
		reasons = append(reasons, fmt.Sprintf("OBV %s", wantOBV))
	}

	// 6. Volume spike.
	if shortTF.VolumeSpike {
		score++
		reasons = append(reasons, "volume spike detected")
	}

	// 7. Candlestick pattern, first match only.
	for _, p := range patterns {
		if shortTF.Patterns.Has(p) {
			score++
			reasons = append(reasons, fmt.Sprintf("%s pattern detected", p))
			break
		}
	}

	// 8. Price near the long-timeframe level.
	if s.nearLevel(dir, shortTF.Price, longTF) {
		score++
		if dir == types.DirectionLong {
			reasons = append(reasons, "price near support")
		} else {
			reasons = append(reasons, "price near resistance")
		}
	}

	return score, reasons
}

func (s *EntryScorer) rsiInZone(rsi *float64, dir types.Direction) bool {
	if rsi == nil {
		return false
	}
	if dir == types.DirectionShort {
		return *rsi > s.cfg.RSIOverbought
	}
	return *rsi < s.cfg.RSIOversold
}

// nearLevel reports whether the price sits within the configured
// percentage above support (long) or below resistance (short).
func (s *EntryScorer) nearLevel(dir types.Direction, price float64, longTF *indicators.Snapshot) bool {
	if price <= 0 {
		return false
	}
	margin := s.cfg.SupportProximityPct / 100
	if dir == types.DirectionLong {
		return longTF.Support != nil && price <= *longTF.Support*(1+margin)
	}
	return longTF.Resistance != nil && price >= *longTF.Resistance*(1-margin)
}

// validate applies the quality gate: a signal below minimum strength or
// with a non-positive price, stop or target must not reach alerting.
func (s *EntryScorer) validate(sig *Signal) bool {
	if sig.Direction == types.DirectionNone || sig.Strength < s.cfg.MinStrength {
		return false
	}
	if sig.Price <= 0 || sig.StopLoss <= 0 {
		return false
	}
	for _, level := range sig.Targets.All() {
		if level.Price <= 0 {
			return false
		}
	}
	return true
}

func capStrength(score, max int) int {
	if score > max {
		return max
	}
	return score
}

// FibonacciTargets derives the four take-profit levels from a price
// range. Long targets grow from the low, short targets fall from the
// high, using the same ratio set.
func FibonacciTargets(high, low float64, dir types.Direction, ratios [4]float64) types.FibTargets {
	diff := high - low
	level := func(ratio float64) float64 {
		if dir == types.DirectionShort {
			return high - diff*ratio
		}
		return low + diff*ratio
	}
	return types.FibTargets{
		TP1: level(ratios[0]),
		TP2: level(ratios[1]),
		TP3: level(ratios[2]),
		TP4: level(ratios[3]),
	}
}

// ATRStopLoss places the stop a multiple of the ATR away from the
// latest close: below it for longs, above it for shorts.
func ATRStopLoss(data []types.OHLCV, period int, multiplier float64, dir types.Direction) (float64, error) {
	atr, err := indicators.NewATR(period).Calculate(data)
	if err != nil {
		return 0, err
	}
	price := data[len(data)-1].Close
	if dir == types.DirectionShort {
		return price + atr*multiplier, nil
	}
	return price - atr*multiplier, nil
}
