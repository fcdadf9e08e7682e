package strategy

import (
	"fmt"
	"strings"

	"github.com/mexc-scalp-bot/internal/indicators"
	"github.com/mexc-scalp-bot/pkg/types"
)

// ExitType labels why a position should be closed.
type ExitType int

const (
	ExitNone ExitType = iota
	ExitTakeProfit
	ExitStopLoss
	ExitTrailingStop
	ExitReversal
)

func (t ExitType) String() string {
	switch t {
	case ExitTakeProfit:
		return "take_profit"
	case ExitStopLoss:
		return "stop_loss"
	case ExitTrailingStop:
		return "trailing_stop"
	case ExitReversal:
		return "reversal"
	default:
		return "none"
	}
}

// ExitDecision is the outcome of one exit evaluation, consumed verbatim
// by the alerting layer.
type ExitDecision struct {
	ShouldExit     bool
	Type           ExitType
	Reason         string
	ProfitPct      float64
	SuggestedPrice float64
}

// ExitConfig holds the thresholds of the exit rule chain. All values
// are injectable per invocation.
type ExitConfig struct {
	ATRPeriod     int
	ATRMultiplier float64

	RSIPeriod         int
	RSIStopOversold   float64 // exit a long below this
	RSIStopOverbought float64 // exit a short above this

	RSIReversalOverbought float64 // reversal vote for a long above this
	RSIReversalOversold   float64 // reversal vote for a short below this
	ReversalVotes         int

	// TrailingActivationPct is the unrealized profit (percent) required
	// before the trailing stop is considered at all.
	TrailingActivationPct float64
	// TrailingOffsetPct places the trailing level this far below the
	// recent extreme (long) or above it (short).
	TrailingOffsetPct float64
	TrailingLookback  int
}

// DefaultExitConfig mirrors the production thresholds.
func DefaultExitConfig() ExitConfig {
	return ExitConfig{
		ATRPeriod:             14,
		ATRMultiplier:         2.0,
		RSIPeriod:             14,
		RSIStopOversold:       20,
		RSIStopOverbought:     80,
		RSIReversalOverbought: 75,
		RSIReversalOversold:   25,
		ReversalVotes:         2,
		TrailingActivationPct: 1.0,
		TrailingOffsetPct:     0.5,
		TrailingLookback:      10,
	}
}

// ExitEvaluator applies the prioritized exit rule chain to an open
// position. Stateless: every call receives the full position context
// and the first matching rule wins.
type ExitEvaluator struct {
	cfg ExitConfig
}

// NewExitEvaluator creates an exit evaluator with the given configuration.
func NewExitEvaluator(cfg ExitConfig) *ExitEvaluator {
	return &ExitEvaluator{cfg: cfg}
}

// EvaluateExit checks, in strict priority order: Fibonacci take-profit,
// the stop-loss chain, the reversal tally, then the trailing stop.
func (e *ExitEvaluator) EvaluateExit(
	pos *types.Position,
	shortTF, longTF *indicators.Snapshot,
	shortSeries []types.OHLCV,
) *ExitDecision {
	decision := &ExitDecision{Type: ExitNone}

	if pos == nil || pos.Direction == types.DirectionNone || len(shortSeries) == 0 {
		return decision
	}

	price := shortSeries[len(shortSeries)-1].Close
	decision.SuggestedPrice = price
	decision.ProfitPct = pos.ProfitPct(price)

	if name, ok := e.takeProfitHit(pos, price); ok {
		decision.ShouldExit = true
		decision.Type = ExitTakeProfit
		decision.Reason = fmt.Sprintf("Fibonacci %s reached", name)
		return decision
	}

	if reason, ok := e.stopLossHit(pos, price, longTF, shortSeries); ok {
		decision.ShouldExit = true
		decision.Type = ExitStopLoss
		decision.Reason = reason
		return decision
	}

	if signals, ok := e.reversalDetected(pos, shortTF, longTF, shortSeries); ok {
		decision.ShouldExit = true
		decision.Type = ExitReversal
		decision.Reason = "reversal signals: " + strings.Join(signals, ", ")
		return decision
	}

	if level, ok := e.trailingStopHit(pos, price, decision.ProfitPct, shortSeries); ok {
		decision.ShouldExit = true
		decision.Type = ExitTrailingStop
		decision.Reason = fmt.Sprintf("trailing stop at %.6f", level)
		return decision
	}

	return decision
}

// takeProfitHit checks the stored targets in order and reports the
// first level the price has reached.
func (e *ExitEvaluator) takeProfitHit(pos *types.Position, price float64) (string, bool) {
	for _, level := range pos.Targets.TakeProfits() {
		if level.Price <= 0 {
			continue
		}
		if pos.Direction == types.DirectionLong && price >= level.Price {
			return level.Name, true
		}
		if pos.Direction == types.DirectionShort && price <= level.Price {
			return level.Name, true
		}
	}
	return "", false
}

// stopLossHit runs the stop sub-rules in order: ATR level, previous-bar
// extreme, EMA cross on the long timeframe, extreme RSI.
func (e *ExitEvaluator) stopLossHit(
	pos *types.Position,
	price float64,
	longTF *indicators.Snapshot,
	shortSeries []types.OHLCV,
) (string, bool) {
	long := pos.Direction == types.DirectionLong

	if stop, err := ATRStopLoss(shortSeries, e.cfg.ATRPeriod, e.cfg.ATRMultiplier, pos.Direction); err == nil {
		if (long && price <= stop) || (!long && price >= stop) {
			return fmt.Sprintf("ATR stop loss hit at %.6f", stop), true
		}
	}

	if len(shortSeries) >= 2 {
		prev := shortSeries[len(shortSeries)-2]
		if long && price <= prev.Low {
			return fmt.Sprintf("price broke previous bar low %.6f", prev.Low), true
		}
		if !long && price >= prev.High {
			return fmt.Sprintf("price broke previous bar high %.6f", prev.High), true
		}
	}

	if cross, ok := e.emaCrossAgainst(pos.Direction, longTF); ok {
		return cross, true
	}

	if rsi, err := indicators.NewRSI(e.cfg.RSIPeriod).Calculate(shortSeries); err == nil {
		if long && rsi < e.cfg.RSIStopOversold {
			return fmt.Sprintf("RSI extremely low (%.1f)", rsi), true
		}
		if !long && rsi > e.cfg.RSIStopOverbought {
			return fmt.Sprintf("RSI extremely high (%.1f)", rsi), true
		}
	}

	return "", false
}

// emaCrossAgainst detects a fast/slow EMA cross on the long timeframe
// against the position, comparing the current relationship with the
// immediately prior one.
func (e *ExitEvaluator) emaCrossAgainst(dir types.Direction, longTF *indicators.Snapshot) (string, bool) {
	if longTF.EMAFast == nil || longTF.EMASlow == nil ||
		longTF.EMAFastPrev == nil || longTF.EMASlowPrev == nil {
		return "", false
	}

	wasAbove := *longTF.EMAFastPrev > *longTF.EMASlowPrev
	isAbove := *longTF.EMAFast > *longTF.EMASlow
	wasBelow := *longTF.EMAFastPrev < *longTF.EMASlowPrev
	isBelow := *longTF.EMAFast < *longTF.EMASlow

	if dir == types.DirectionLong && wasAbove && isBelow {
		return "bearish EMA cross on long timeframe", true
	}
	if dir == types.DirectionShort && wasBelow && isAbove {
		return "bullish EMA cross on long timeframe", true
	}
	return "", false
}

// reversalDetected tallies independent signals opposing the position
// and reports all contributors once the vote threshold is met.
func (e *ExitEvaluator) reversalDetected(
	pos *types.Position,
	shortTF, longTF *indicators.Snapshot,
	shortSeries []types.OHLCV,
) ([]string, bool) {
	long := pos.Direction == types.DirectionLong
	var signals []string

	if long && shortTF.OBVTrend == indicators.OBVTrendFalling {
		signals = append(signals, "OBV falling")
	} else if !long && shortTF.OBVTrend == indicators.OBVTrendRising {
		signals = append(signals, "OBV rising")
	}

	opposing := bearishEntryPatterns
	if !long {
		opposing = bullishEntryPatterns
	}
	for _, p := range opposing {
		if shortTF.Patterns.Has(p) {
			signals = append(signals, fmt.Sprintf("%s pattern", p))
			break
		}
	}

	if rsi, err := indicators.NewRSI(e.cfg.RSIPeriod).Calculate(shortSeries); err == nil {
		if long && rsi > e.cfg.RSIReversalOverbought {
			signals = append(signals, fmt.Sprintf("RSI overbought (%.1f)", rsi))
		} else if !long && rsi < e.cfg.RSIReversalOversold {
			signals = append(signals, fmt.Sprintf("RSI oversold (%.1f)", rsi))
		}
	}

	if long && longTF.Trend == indicators.TrendBearish {
		signals = append(signals, "long timeframe trend bearish")
	} else if !long && longTF.Trend == indicators.TrendBullish {
		signals = append(signals, "long timeframe trend bullish")
	}

	return signals, len(signals) >= e.cfg.ReversalVotes
}

// trailingStopHit arms only after the position is past the activation
// profit, then trails the recent extreme by the configured offset.
func (e *ExitEvaluator) trailingStopHit(
	pos *types.Position,
	price, profitPct float64,
	shortSeries []types.OHLCV,
) (float64, bool) {
	if profitPct <= e.cfg.TrailingActivationPct {
		return 0, false
	}

	lookback := e.cfg.TrailingLookback
	if lookback > len(shortSeries) {
		lookback = len(shortSeries)
	}
	recent := shortSeries[len(shortSeries)-lookback:]
	offset := e.cfg.TrailingOffsetPct / 100

	if pos.Direction == types.DirectionLong {
		highestLow := recent[0].Low
		for _, c := range recent {
			if c.Low > highestLow {
				highestLow = c.Low
			}
		}
		level := highestLow * (1 - offset)
		return level, price <= level
	}

	lowestHigh := recent[0].High
	for _, c := range recent {
		if c.High < lowestHigh {
			lowestHigh = c.High
		}
	}
	level := lowestHigh * (1 + offset)
	return level, price >= level
}
