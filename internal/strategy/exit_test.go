package strategy

import (
	"testing"

	"github.com/mexc-scalp-bot/internal/indicators"
	"github.com/mexc-scalp-bot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longPosition(entry float64, targets types.FibTargets) *types.Position {
	return &types.Position{
		Symbol:     "BTC_USDT",
		Direction:  types.DirectionLong,
		EntryPrice: entry,
		Targets:    targets,
	}
}

func neutralSnapshot() *indicators.Snapshot {
	return &indicators.Snapshot{Patterns: indicators.PatternSet{}}
}

func TestExitEvaluator_NoPosition(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())

	decision := ev.EvaluateExit(nil, neutralSnapshot(), neutralSnapshot(), flatSeries(30))
	assert.False(t, decision.ShouldExit)
	assert.Equal(t, ExitNone, decision.Type)

	decision = ev.EvaluateExit(longPosition(100, types.FibTargets{}), neutralSnapshot(), neutralSnapshot(), nil)
	assert.False(t, decision.ShouldExit)
}

func TestExitEvaluator_TakeProfitLong(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{TP1: 101, TP2: 102, TP3: 103})

	series := flatSeries(30)
	series[29] = candle(100, 105, 95, 101.5, 1000, 29)

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), series)

	require.True(t, decision.ShouldExit)
	assert.Equal(t, ExitTakeProfit, decision.Type)
	assert.Contains(t, decision.Reason, "TP1")
	assert.InDelta(t, 1.5, decision.ProfitPct, 1e-9)
	assert.Equal(t, 101.5, decision.SuggestedPrice)
}

func TestExitEvaluator_TakeProfitReportsFirstLevelHit(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{TP1: 101, TP2: 102, TP3: 103})

	series := flatSeries(30)
	series[29] = candle(100, 105, 95, 103.5, 1000, 29)

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), series)

	require.True(t, decision.ShouldExit)
	assert.Contains(t, decision.Reason, "TP1")
	assert.NotContains(t, decision.Reason, "TP3")
}

func TestExitEvaluator_TakeProfitShort(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := &types.Position{
		Symbol:     "ETH_USDT",
		Direction:  types.DirectionShort,
		EntryPrice: 100,
		Targets:    types.FibTargets{TP1: 99, TP2: 98, TP3: 97},
	}

	series := flatSeries(30)
	series[29] = candle(100, 105, 95, 98.5, 1000, 29)

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), series)

	require.True(t, decision.ShouldExit)
	assert.Equal(t, ExitTakeProfit, decision.Type)
	assert.Contains(t, decision.Reason, "TP1")
	assert.InDelta(t, 1.5, decision.ProfitPct, 1e-9)
}

func TestExitEvaluator_TakeProfitBeatsStopChain(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{TP1: 101, TP2: 102, TP3: 103})

	// Last close is under the previous bar's low AND above TP1: the
	// take-profit rule must win because it is evaluated first.
	series := flatSeries(28)
	series = append(series,
		candle(102.2, 103, 102, 102.5, 1000, 28),
		candle(102, 102.6, 101, 101.5, 1000, 29),
	)

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), series)

	require.True(t, decision.ShouldExit)
	assert.Equal(t, ExitTakeProfit, decision.Type)
}

func TestExitEvaluator_PreviousBarLowBreak(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{})

	series := flatSeries(30)
	series[29] = candle(100, 105, 93, 94, 1000, 29)

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), series)

	require.True(t, decision.ShouldExit)
	assert.Equal(t, ExitStopLoss, decision.Type)
	assert.Contains(t, decision.Reason, "previous bar low")
}

func TestExitEvaluator_PreviousBarHighBreakShort(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := &types.Position{
		Symbol:     "SOL_USDT",
		Direction:  types.DirectionShort,
		EntryPrice: 110,
		Targets:    types.FibTargets{},
	}

	series := flatSeries(30)
	series[29] = candle(100, 107, 95, 106, 1000, 29)

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), series)

	require.True(t, decision.ShouldExit)
	assert.Equal(t, ExitStopLoss, decision.Type)
	assert.Contains(t, decision.Reason, "previous bar high")
}

func TestExitEvaluator_BearishEMACross(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{})

	longTF := &indicators.Snapshot{
		Patterns:    indicators.PatternSet{},
		EMAFast:     fptr(99),
		EMASlow:     fptr(100),
		EMAFastPrev: fptr(101),
		EMASlowPrev: fptr(100),
	}

	decision := ev.EvaluateExit(pos, neutralSnapshot(), longTF, flatSeries(30))

	require.True(t, decision.ShouldExit)
	assert.Equal(t, ExitStopLoss, decision.Type)
	assert.Contains(t, decision.Reason, "bearish EMA cross")
}

func TestExitEvaluator_EMAStillAboveIsNotACross(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{})

	longTF := &indicators.Snapshot{
		Patterns:    indicators.PatternSet{},
		EMAFast:     fptr(101),
		EMASlow:     fptr(100),
		EMAFastPrev: fptr(102),
		EMASlowPrev: fptr(100),
	}

	decision := ev.EvaluateExit(pos, neutralSnapshot(), longTF, flatSeries(30))
	assert.False(t, decision.ShouldExit)
}

func TestExitEvaluator_ExtremeRSIStopsLong(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(150, types.FibTargets{})

	// Steady half-point decline: RSI collapses to zero while each close
	// stays above the previous bar's low.
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 150.0 - float64(i)*0.5
	}
	series := seriesFromCloses(closes...)

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), series)

	require.True(t, decision.ShouldExit)
	assert.Equal(t, ExitStopLoss, decision.Type)
	assert.Contains(t, decision.Reason, "RSI extremely low")
}

func TestExitEvaluator_ReversalTally(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{})

	shortTF := &indicators.Snapshot{
		OBVTrend: indicators.OBVTrendFalling,
		Patterns: indicators.PatternSet{indicators.PatternBearishEngulfing: true},
	}

	decision := ev.EvaluateExit(pos, shortTF, neutralSnapshot(), flatSeries(30))

	require.True(t, decision.ShouldExit)
	assert.Equal(t, ExitReversal, decision.Type)
	assert.Contains(t, decision.Reason, "OBV falling")
	assert.Contains(t, decision.Reason, "bearish_engulfing pattern")
}

func TestExitEvaluator_SingleReversalVoteHolds(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{})

	shortTF := &indicators.Snapshot{
		OBVTrend: indicators.OBVTrendFalling,
		Patterns: indicators.PatternSet{},
	}

	// Alternating closes keep the RSI midrange so it contributes no vote.
	closes := make([]float64, 40)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 101
		}
	}
	series := seriesFromCloses(closes...)

	decision := ev.EvaluateExit(pos, shortTF, neutralSnapshot(), series)
	assert.False(t, decision.ShouldExit)
}

func TestExitEvaluator_TrailingStopAfterPullback(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{})

	// Rally to 105, then a pullback to 103: still above the previous
	// bar's low but under the trailed level of the recent lows.
	series := flatSeries(20)
	for i, c := range []float64{101, 102, 103, 104, 105} {
		series = append(series, candle(c-0.2, c+1, c-1, c, 1000, 20+i))
	}
	series = append(series,
		candle(104.8, 105.2, 102.9, 103.4, 1000, 25),
		candle(103.4, 103.8, 102.5, 103, 1000, 26),
	)

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), series)

	require.True(t, decision.ShouldExit)
	assert.Equal(t, ExitTrailingStop, decision.Type)
	assert.Contains(t, decision.Reason, "trailing stop")
	assert.InDelta(t, 3.0, decision.ProfitPct, 1e-9)
}

func TestExitEvaluator_TrailingStopNeedsProfit(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{})

	// Exactly 1% profit: the trailing stop must stay disarmed.
	series := flatSeries(29)
	series = append(series, candle(100.9, 101.5, 100.8, 101, 1000, 29))

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), series)
	assert.False(t, decision.ShouldExit)
	assert.InDelta(t, 1.0, decision.ProfitPct, 1e-9)
}

func TestExitEvaluator_QuietMarketHolds(t *testing.T) {
	ev := NewExitEvaluator(DefaultExitConfig())
	pos := longPosition(100, types.FibTargets{TP1: 110, TP2: 120, TP3: 130})

	decision := ev.EvaluateExit(pos, neutralSnapshot(), neutralSnapshot(), flatSeries(60))

	assert.False(t, decision.ShouldExit)
	assert.Equal(t, ExitNone, decision.Type)
	assert.Zero(t, decision.ProfitPct)
}

func TestExitType_String(t *testing.T) {
	assert.Equal(t, "take_profit", ExitTakeProfit.String())
	assert.Equal(t, "stop_loss", ExitStopLoss.String())
	assert.Equal(t, "trailing_stop", ExitTrailingStop.String())
	assert.Equal(t, "reversal", ExitReversal.String())
	assert.Equal(t, "none", ExitNone.String())
}
