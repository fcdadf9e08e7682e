package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/mexc-scalp-bot/pkg/types"
)

// BybitClient adapts Bybit's linear perpetual market data to the Client
// interface, so the scanner can run against Bybit with the same symbol
// and interval notation it uses for MEXC.
type BybitClient struct {
	httpClient *bybit_api.Client
}

// BybitConfig holds the credentials and environment for the Bybit client.
type BybitConfig struct {
	APIKey    string
	APISecret string
	Testnet   bool
}

// NewBybitClient creates a Bybit v5 API client.
func NewBybitClient(cfg BybitConfig) *BybitClient {
	baseURL := bybit_api.MAINNET
	if cfg.Testnet {
		baseURL = bybit_api.TESTNET
	}
	return &BybitClient{
		httpClient: bybit_api.NewBybitHttpClient(
			cfg.APIKey,
			cfg.APISecret,
			bybit_api.WithBaseURL(baseURL),
		),
	}
}

// GetName returns the venue name.
func (c *BybitClient) GetName() string {
	return "bybit"
}

// Ping fetches the BTC ticker to verify connectivity.
func (c *BybitClient) Ping(ctx context.Context) error {
	params := map[string]interface{}{
		"category": "linear",
		"symbol":   "BTCUSDT",
	}
	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	if err != nil {
		return fmt.Errorf("bybit ping: %w", err)
	}
	if _, err := unwrapResult(result); err != nil {
		return fmt.Errorf("bybit ping: %w", err)
	}
	return nil
}

// GetKlines returns candles for the symbol, oldest first. Accepts MEXC
// interval notation and translates it to Bybit's.
func (c *BybitClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	params := map[string]interface{}{
		"category": "linear",
		"symbol":   bybitSymbol(symbol),
		"interval": bybitInterval(interval),
		"limit":    limit,
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
	if err != nil {
		return nil, fmt.Errorf("bybit klines for %s: %w", symbol, err)
	}

	raw, err := unwrapResult(result)
	if err != nil {
		return nil, fmt.Errorf("bybit klines for %s: %w", symbol, err)
	}

	var klineResult struct {
		List [][]string `json:"list"`
	}
	if err := json.Unmarshal(raw, &klineResult); err != nil {
		return nil, fmt.Errorf("decode bybit klines: %w", err)
	}

	// Bybit returns newest first: [startTime, open, high, low, close, volume, turnover].
	candles := make([]types.OHLCV, 0, len(klineResult.List))
	for i := len(klineResult.List) - 1; i >= 0; i-- {
		item := klineResult.List[i]
		if len(item) < 6 {
			continue
		}
		ms, _ := strconv.ParseInt(item[0], 10, 64)
		candles = append(candles, types.OHLCV{
			Open:      parseFloat(item[1]),
			High:      parseFloat(item[2]),
			Low:       parseFloat(item[3]),
			Close:     parseFloat(item[4]),
			Volume:    parseFloat(item[5]),
			Timestamp: time.UnixMilli(ms).UTC(),
		})
	}
	return candles, nil
}

// GetTicker returns the latest price for the symbol.
func (c *BybitClient) GetTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	params := map[string]interface{}{
		"category": "linear",
		"symbol":   bybitSymbol(symbol),
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("bybit ticker for %s: %w", symbol, err)
	}

	raw, err := unwrapResult(result)
	if err != nil {
		return nil, fmt.Errorf("bybit ticker for %s: %w", symbol, err)
	}

	var tickerResult struct {
		List []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
			Volume24h string `json:"volume24h"`
		} `json:"list"`
	}
	if err := json.Unmarshal(raw, &tickerResult); err != nil {
		return nil, fmt.Errorf("decode bybit ticker: %w", err)
	}
	if len(tickerResult.List) == 0 {
		return nil, fmt.Errorf("no ticker data for %s", symbol)
	}

	return &types.Ticker{
		Symbol:    symbol,
		Price:     parseFloat(tickerResult.List[0].LastPrice),
		Volume:    parseFloat(tickerResult.List[0].Volume24h),
		Timestamp: time.Now().UTC(),
	}, nil
}

// GetContractSymbols lists linear USDT perpetuals, reported in the
// underscore notation the rest of the bot uses.
func (c *BybitClient) GetContractSymbols(ctx context.Context) ([]string, error) {
	params := map[string]interface{}{
		"category": "linear",
		"limit":    1000,
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("bybit instruments: %w", err)
	}

	raw, err := unwrapResult(result)
	if err != nil {
		return nil, fmt.Errorf("bybit instruments: %w", err)
	}

	var instrumentResult struct {
		List []struct {
			Symbol    string `json:"symbol"`
			QuoteCoin string `json:"quoteCoin"`
			BaseCoin  string `json:"baseCoin"`
			Status    string `json:"status"`
		} `json:"list"`
	}
	if err := json.Unmarshal(raw, &instrumentResult); err != nil {
		return nil, fmt.Errorf("decode bybit instruments: %w", err)
	}

	symbols := make([]string, 0, len(instrumentResult.List))
	for _, inst := range instrumentResult.List {
		if inst.QuoteCoin != "USDT" || inst.Status != "Trading" {
			continue
		}
		symbols = append(symbols, inst.BaseCoin+"_USDT")
	}
	return symbols, nil
}

// unwrapResult validates a ServerResponse and returns its Result field
// re-marshalled for typed decoding.
func unwrapResult(response interface{}) ([]byte, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", response)
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code %d)", serverResp.RetMsg, serverResp.RetCode)
	}
	return json.Marshal(serverResp.Result)
}

// bybitSymbol converts BTC_USDT to BTCUSDT.
func bybitSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "_", "")
}

// bybitInterval converts MEXC interval notation to Bybit's.
func bybitInterval(interval string) string {
	switch interval {
	case "Min1":
		return "1"
	case "Min5":
		return "5"
	case "Min15":
		return "15"
	case "Min30":
		return "30"
	case "Min60":
		return "60"
	case "Hour4":
		return "240"
	case "Day1":
		return "D"
	default:
		return interval
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
