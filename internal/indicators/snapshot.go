package indicators

import (
	"github.com/mexc-scalp-bot/pkg/types"
)

// Config holds the periods and thresholds used to build a snapshot.
// All values are injectable so tests can run with non-default periods.
type Config struct {
	RSIShortPeriod int
	RSILongPeriod  int
	EMAFastPeriod  int
	EMASlowPeriod  int
	ATRPeriod      int

	VolumeSpikeMultiplier float64
	VolumeLookback        int

	// LevelWindow is the rolling window for support/resistance levels.
	LevelWindow int
}

// DefaultConfig mirrors the production parameters: RSI 7/14, EMA 20/50,
// ATR 14, volume spike 2x over 20 bars, 20-bar support/resistance.
func DefaultConfig() Config {
	return Config{
		RSIShortPeriod:        7,
		RSILongPeriod:         14,
		EMAFastPeriod:         20,
		EMASlowPeriod:         50,
		ATRPeriod:             14,
		VolumeSpikeMultiplier: 2.0,
		VolumeLookback:        20,
		LevelWindow:           20,
	}
}

// Snapshot is the full technical picture of one candle window. Pointer
// fields are nil when the window is too short for that indicator;
// absence is expected, not an error.
type Snapshot struct {
	RSIShort *float64
	RSILong  *float64
	EMAFast  *float64
	EMASlow  *float64

	// Previous-bar EMA values, kept so a caller can detect an EMA cross
	// without re-reading the series.
	EMAFastPrev *float64
	EMASlowPrev *float64

	OBV      *float64
	OBVTrend OBVTrend

	ATR *float64

	Trend       TrendDirection
	VolumeSpike bool
	Patterns    PatternSet

	Support    *float64
	Resistance *float64

	Price  float64
	Volume float64
}

// Engine computes indicator snapshots. It is a pure function of its
// input window and holds no per-symbol state, so one engine may serve
// any number of symbols concurrently.
type Engine struct {
	cfg Config
}

// NewEngine creates a snapshot engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Snapshot computes every indicator independently over the window.
// A malformed series (out-of-order timestamps, broken OHLC bounds)
// yields a wholly empty snapshot; a short series yields a partial one.
// The call never fails.
func (e *Engine) Snapshot(data []types.OHLCV) *Snapshot {
	snap := &Snapshot{Patterns: make(PatternSet)}

	if len(data) == 0 || types.ValidateSeries(data) != nil {
		return snap
	}

	snap.Price = data[len(data)-1].Close
	snap.Volume = data[len(data)-1].Volume

	if v, err := NewRSI(e.cfg.RSIShortPeriod).Calculate(data); err == nil {
		snap.RSIShort = &v
	}
	if v, err := NewRSI(e.cfg.RSILongPeriod).Calculate(data); err == nil {
		snap.RSILong = &v
	}

	var fast, slow *float64
	if v, err := NewEMA(e.cfg.EMAFastPeriod).Calculate(data); err == nil {
		fast = &v
	}
	if v, err := NewEMA(e.cfg.EMASlowPeriod).Calculate(data); err == nil {
		slow = &v
	}
	snap.EMAFast = fast
	snap.EMASlow = slow
	if fast != nil && slow != nil {
		snap.Trend = ClassifyTrend(*fast, *slow)
	}

	if len(data) > 1 {
		prev := data[:len(data)-1]
		if v, err := NewEMA(e.cfg.EMAFastPeriod).Calculate(prev); err == nil {
			snap.EMAFastPrev = &v
		}
		if v, err := NewEMA(e.cfg.EMASlowPeriod).Calculate(prev); err == nil {
			snap.EMASlowPrev = &v
		}
	}

	obv := NewOBV()
	if v, err := obv.Calculate(data); err == nil {
		snap.OBV = &v
	}
	if t, err := obv.Trend(data); err == nil {
		snap.OBVTrend = t
	}

	if v, err := NewATR(e.cfg.ATRPeriod).Calculate(data); err == nil {
		snap.ATR = &v
	}

	snap.VolumeSpike = DetectVolumeSpike(data, e.cfg.VolumeSpikeMultiplier, e.cfg.VolumeLookback)
	snap.Patterns = DetectPatterns(data)

	if s, r, err := SupportResistance(data, e.cfg.LevelWindow); err == nil {
		snap.Support = &s
		snap.Resistance = &r
	}

	return snap
}
