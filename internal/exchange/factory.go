package exchange

import (
	"fmt"
	"strings"
)

// Config selects and configures a market data venue.
type Config struct {
	Name  string
	MEXC  MEXCConfig
	Bybit BybitConfig
}

// New creates the client for the configured venue. MEXC is the primary
// venue; Bybit is kept as an alternate data source with the same
// interface.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", "mexc":
		return NewMEXCClient(cfg.MEXC), nil
	case "bybit":
		return NewBybitClient(cfg.Bybit), nil
	default:
		return nil, fmt.Errorf("unsupported exchange %q (supported: mexc, bybit)", cfg.Name)
	}
}
