package market

import (
	"context"
	"testing"
	"time"

	"github.com/mexc-scalp-bot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVenue counts calls so cache behavior is observable.
type fakeVenue struct {
	klineCalls  int
	symbolCalls int
	candles     []types.OHLCV
	symbols     []string
}

func (f *fakeVenue) GetName() string                  { return "fake" }
func (f *fakeVenue) Ping(context.Context) error       { return nil }
func (f *fakeVenue) GetTicker(_ context.Context, symbol string) (*types.Ticker, error) {
	return &types.Ticker{Symbol: symbol, Price: 100}, nil
}

func (f *fakeVenue) GetKlines(_ context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	f.klineCalls++
	return f.candles, nil
}

func (f *fakeVenue) GetContractSymbols(context.Context) ([]string, error) {
	f.symbolCalls++
	return f.symbols, nil
}

func testCandles(n int) []types.OHLCV {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	data := make([]types.OHLCV, n)
	for i := 0; i < n; i++ {
		data[i] = types.OHLCV{
			Open: 100, High: 105, Low: 95, Close: 101, Volume: 1000,
			Timestamp: start.Add(time.Duration(i) * time.Minute),
		}
	}
	return data
}

func TestProvider_KlinesCached(t *testing.T) {
	venue := &fakeVenue{candles: testCandles(10)}
	provider := NewProvider(venue)

	first, err := provider.Klines(context.Background(), "BTC_USDT", IntervalShort, 10)
	require.NoError(t, err)
	second, err := provider.Klines(context.Background(), "BTC_USDT", IntervalShort, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, venue.klineCalls)
}

func TestProvider_CacheKeyIncludesIntervalAndLimit(t *testing.T) {
	venue := &fakeVenue{candles: testCandles(10)}
	provider := NewProvider(venue)

	_, err := provider.Klines(context.Background(), "BTC_USDT", IntervalShort, 10)
	require.NoError(t, err)
	_, err = provider.Klines(context.Background(), "BTC_USDT", IntervalLong, 10)
	require.NoError(t, err)
	_, err = provider.Klines(context.Background(), "BTC_USDT", IntervalShort, 20)
	require.NoError(t, err)

	assert.Equal(t, 3, venue.klineCalls)
}

func TestProvider_InvalidateForcesRefetch(t *testing.T) {
	venue := &fakeVenue{candles: testCandles(10)}
	provider := NewProvider(venue)

	_, err := provider.Klines(context.Background(), "BTC_USDT", IntervalShort, 10)
	require.NoError(t, err)

	provider.Invalidate()

	_, err = provider.Klines(context.Background(), "BTC_USDT", IntervalShort, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, venue.klineCalls)
}

func TestProvider_RejectsMalformedSeries(t *testing.T) {
	candles := testCandles(5)
	candles[3].Timestamp = candles[1].Timestamp
	venue := &fakeVenue{candles: candles}
	provider := NewProvider(venue)

	_, err := provider.Klines(context.Background(), "BTC_USDT", IntervalShort, 5)
	assert.ErrorIs(t, err, types.ErrMalformedSeries)
}

func TestProvider_Timeframes(t *testing.T) {
	venue := &fakeVenue{candles: testCandles(10)}
	provider := NewProvider(venue)

	short, long, err := provider.Timeframes(context.Background(), "BTC_USDT", 10)
	require.NoError(t, err)
	assert.Len(t, short, 10)
	assert.Len(t, long, 10)
	assert.Equal(t, 2, venue.klineCalls)
}

func TestProvider_SymbolsCachedAndFiltered(t *testing.T) {
	venue := &fakeVenue{symbols: []string{"BTC_USDT", "ETH_USDT", "DOGE_USDT"}}
	provider := NewProvider(venue)

	symbols, err := provider.Symbols(context.Background(), []string{"DOGE_USDT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC_USDT", "ETH_USDT"}, symbols)

	again, err := provider.Symbols(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, again, 3)
	assert.Equal(t, 1, venue.symbolCalls)
}
