package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mexc-scalp-bot/internal/exchange"
	"github.com/mexc-scalp-bot/internal/safety"
	"github.com/mexc-scalp-bot/pkg/types"
)

const (
	// IntervalShort and IntervalLong are the two analysis timeframes.
	IntervalShort = "Min1"
	IntervalLong  = "Min5"

	klineCacheTTL  = time.Minute
	symbolCacheTTL = time.Hour
)

// Provider serves candle windows from a venue with a short-lived
// in-memory cache, so scanning many symbols in one cycle does not
// re-fetch the reference series or hammer the rate limit.
type Provider struct {
	client exchange.Client
	retry  safety.RetryConfig

	mu      sync.Mutex
	klines  map[string]klineEntry
	symbols symbolEntry
}

type klineEntry struct {
	data      []types.OHLCV
	fetchedAt time.Time
}

type symbolEntry struct {
	list      []string
	fetchedAt time.Time
}

// NewProvider wraps a venue client with caching and transient-failure
// retries.
func NewProvider(client exchange.Client) *Provider {
	return &Provider{
		client: client,
		retry:  safety.DefaultRetryConfig(),
		klines: make(map[string]klineEntry),
	}
}

// VenueName returns the underlying venue's name.
func (p *Provider) VenueName() string {
	return p.client.GetName()
}

// Ping checks venue connectivity.
func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Klines returns up to limit candles for the symbol and interval,
// oldest first, serving from cache within the TTL.
func (p *Provider) Klines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	key := fmt.Sprintf("%s|%s|%d", symbol, interval, limit)

	p.mu.Lock()
	entry, ok := p.klines[key]
	p.mu.Unlock()
	if ok && time.Since(entry.fetchedAt) < klineCacheTTL {
		return entry.data, nil
	}

	var data []types.OHLCV
	err := safety.Retry(ctx, p.retry, func() error {
		var fetchErr error
		data, fetchErr = p.client.GetKlines(ctx, symbol, interval, limit)
		return fetchErr
	})
	if err != nil {
		return nil, fmt.Errorf("klines %s %s: %w", symbol, interval, err)
	}
	if err := types.ValidateSeries(data); err != nil {
		return nil, fmt.Errorf("klines %s %s: %w", symbol, interval, err)
	}

	p.mu.Lock()
	p.klines[key] = klineEntry{data: data, fetchedAt: time.Now()}
	p.mu.Unlock()
	return data, nil
}

// Timeframes fetches the short and long analysis windows for a symbol.
func (p *Provider) Timeframes(ctx context.Context, symbol string, limit int) (short, long []types.OHLCV, err error) {
	short, err = p.Klines(ctx, symbol, IntervalShort, limit)
	if err != nil {
		return nil, nil, err
	}
	long, err = p.Klines(ctx, symbol, IntervalLong, limit)
	if err != nil {
		return nil, nil, err
	}
	return short, long, nil
}

// Ticker passes through to the venue; tickers are not cached.
func (p *Provider) Ticker(ctx context.Context, symbol string) (*types.Ticker, error) {
	return p.client.GetTicker(ctx, symbol)
}

// Symbols lists the venue's tradable USDT pairs minus the excluded
// ones, cached for an hour.
func (p *Provider) Symbols(ctx context.Context, excluded []string) ([]string, error) {
	p.mu.Lock()
	cached := p.symbols
	p.mu.Unlock()
	if cached.list != nil && time.Since(cached.fetchedAt) < symbolCacheTTL {
		return filterSymbols(cached.list, excluded), nil
	}

	list, err := p.client.GetContractSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("contract symbols: %w", err)
	}

	p.mu.Lock()
	p.symbols = symbolEntry{list: list, fetchedAt: time.Now()}
	p.mu.Unlock()
	return filterSymbols(list, excluded), nil
}

// Invalidate drops all cached data, forcing fresh fetches.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.klines = make(map[string]klineEntry)
	p.symbols = symbolEntry{}
}

func filterSymbols(list, excluded []string) []string {
	if len(excluded) == 0 {
		return list
	}
	skip := make(map[string]bool, len(excluded))
	for _, s := range excluded {
		skip[s] = true
	}
	out := make([]string, 0, len(list))
	for _, s := range list {
		if !skip[s] {
			out = append(out, s)
		}
	}
	return out
}
