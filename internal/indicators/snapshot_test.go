package indicators

import (
	"testing"
	"time"

	"github.com/mexc-scalp-bot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Snapshot_FullWindow(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	data := generateTestData(120)

	snap := engine.Snapshot(data)

	require.NotNil(t, snap.RSIShort)
	require.NotNil(t, snap.RSILong)
	require.NotNil(t, snap.EMAFast)
	require.NotNil(t, snap.EMASlow)
	require.NotNil(t, snap.EMAFastPrev)
	require.NotNil(t, snap.EMASlowPrev)
	require.NotNil(t, snap.OBV)
	require.NotNil(t, snap.ATR)
	require.NotNil(t, snap.Support)
	require.NotNil(t, snap.Resistance)

	assert.Equal(t, data[119].Close, snap.Price)
	assert.Equal(t, data[119].Volume, snap.Volume)
	// Steadily rising closes: fast EMA above slow, OBV climbing.
	assert.Equal(t, TrendBullish, snap.Trend)
	assert.Equal(t, OBVTrendRising, snap.OBVTrend)
}

func TestEngine_Snapshot_EmptyInput(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	snap := engine.Snapshot(nil)

	assert.Nil(t, snap.RSIShort)
	assert.Nil(t, snap.EMAFast)
	assert.Nil(t, snap.Support)
	assert.Equal(t, TrendUnknown, snap.Trend)
	assert.Equal(t, OBVTrendNone, snap.OBVTrend)
	assert.False(t, snap.VolumeSpike)
	assert.Empty(t, snap.Patterns)
	assert.Zero(t, snap.Price)
}

func TestEngine_Snapshot_MalformedSeriesIsEmpty(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	data := generateTestData(120)
	// Break timestamp ordering in the middle of the window.
	data[60].Timestamp = data[10].Timestamp

	snap := engine.Snapshot(data)

	assert.Nil(t, snap.RSIShort)
	assert.Nil(t, snap.RSILong)
	assert.Nil(t, snap.EMAFast)
	assert.Nil(t, snap.OBV)
	assert.Nil(t, snap.ATR)
	assert.Nil(t, snap.Support)
	assert.Zero(t, snap.Price)
}

func TestEngine_Snapshot_BrokenOHLCBoundsIsEmpty(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	data := generateTestData(120)
	data[30].High = data[30].Low - 1

	snap := engine.Snapshot(data)
	assert.Nil(t, snap.RSIShort)
	assert.Zero(t, snap.Price)
}

func TestEngine_Snapshot_ShortWindowIsPartial(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	// 20 bars: short RSI (7) and fast EMA (20) compute, long RSI (needs
	// 15, also fine) but slow EMA (50) does not.
	data := generateTestData(20)

	snap := engine.Snapshot(data)

	assert.NotNil(t, snap.RSIShort)
	assert.NotNil(t, snap.RSILong)
	assert.NotNil(t, snap.EMAFast)
	assert.Nil(t, snap.EMASlow)
	assert.Equal(t, TrendUnknown, snap.Trend)
	assert.NotNil(t, snap.Support)
	assert.Equal(t, data[19].Close, snap.Price)
}

func TestEngine_Snapshot_TwoBarsStillComputesOBV(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	data := generateTestData(2)

	snap := engine.Snapshot(data)

	assert.Nil(t, snap.RSIShort)
	assert.NotNil(t, snap.OBV)
	assert.Equal(t, OBVTrendRising, snap.OBVTrend)
	assert.NotNil(t, snap.Support)
}

func TestEngine_Snapshot_PrevEMATracksPriorBar(t *testing.T) {
	engine := NewEngine(Config{
		RSIShortPeriod: 7, RSILongPeriod: 14,
		EMAFastPeriod: 3, EMASlowPeriod: 5, ATRPeriod: 14,
		VolumeSpikeMultiplier: 2.0, VolumeLookback: 20, LevelWindow: 20,
	})
	data := generateTestData(40)

	snap := engine.Snapshot(data)
	require.NotNil(t, snap.EMAFastPrev)

	prior, err := NewEMA(3).Calculate(data[:39])
	require.NoError(t, err)
	assert.InDelta(t, prior, *snap.EMAFastPrev, 1e-9)
}

func TestEngine_Snapshot_StatelessAcrossCalls(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	data := generateTestData(120)

	first := engine.Snapshot(data)
	engine.Snapshot(generateFlatData(120))
	second := engine.Snapshot(data)

	require.NotNil(t, first.RSIShort)
	require.NotNil(t, second.RSIShort)
	assert.Equal(t, *first.RSIShort, *second.RSIShort)
	assert.Equal(t, *first.EMAFast, *second.EMAFast)
	assert.Equal(t, first.Trend, second.Trend)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 7, cfg.RSIShortPeriod)
	assert.Equal(t, 14, cfg.RSILongPeriod)
	assert.Equal(t, 20, cfg.EMAFastPeriod)
	assert.Equal(t, 50, cfg.EMASlowPeriod)
	assert.Equal(t, 14, cfg.ATRPeriod)
	assert.Equal(t, 2.0, cfg.VolumeSpikeMultiplier)
	assert.Equal(t, 20, cfg.VolumeLookback)
	assert.Equal(t, 20, cfg.LevelWindow)
}

func BenchmarkEngine_Snapshot(b *testing.B) {
	engine := NewEngine(DefaultConfig())
	data := make([]types.OHLCV, 200)
	for i := range data {
		close := 100.0 + float64(i%17)
		data[i] = types.OHLCV{
			Open: close - 0.3, High: close + 1, Low: close - 1, Close: close,
			Volume:    1000,
			Timestamp: testStart.Add(time.Duration(i) * time.Minute),
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Snapshot(data)
	}
}
