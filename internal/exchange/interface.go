package exchange

import (
	"context"

	"github.com/mexc-scalp-bot/pkg/types"
)

// Client is a read-only market data venue. The bot never places orders;
// it only needs candles, tickers and symbol discovery.
type Client interface {
	GetName() string

	// Ping verifies connectivity with the venue.
	Ping(ctx context.Context) error

	// GetKlines returns up to limit candles for the symbol, oldest
	// first. The interval uses the venue's own notation (Min1, Min5 on
	// MEXC; 1, 5 on Bybit), translated by the caller via the provider.
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error)

	// GetTicker returns the latest price for the symbol.
	GetTicker(ctx context.Context, symbol string) (*types.Ticker, error)

	// GetContractSymbols lists the USDT perpetual pairs open to API
	// trading on the venue.
	GetContractSymbols(ctx context.Context) ([]string, error)
}
