package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mexc-scalp-bot/internal/safety"
	"github.com/mexc-scalp-bot/pkg/types"
)

const (
	mexcBaseURL = "https://contract.mexc.com"

	// The contract API allows 20 requests per 2 second window.
	mexcRateCapacity = 20
	mexcRateWindow   = 2 * time.Second
)

// MEXCClient talks to the MEXC contract (futures) REST API.
type MEXCClient struct {
	apiKey     string
	secretKey  string
	baseURL    string
	httpClient *http.Client
	limiter    *safety.RateLimiter
}

// MEXCConfig holds the credentials and endpoint for the MEXC client.
// Credentials are only needed for the private account endpoints.
type MEXCConfig struct {
	APIKey    string
	SecretKey string
	BaseURL   string
}

// NewMEXCClient creates a MEXC contract API client with its own rate
// limiter.
func NewMEXCClient(cfg MEXCConfig) *MEXCClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = mexcBaseURL
	}
	return &MEXCClient{
		apiKey:    cfg.APIKey,
		secretKey: cfg.SecretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: safety.NewRateLimiter("mexc", mexcRateCapacity, mexcRateWindow),
	}
}

// GetName returns the venue name.
func (c *MEXCClient) GetName() string {
	return "mexc"
}

// Ping verifies connectivity with the contract API.
func (c *MEXCClient) Ping(ctx context.Context) error {
	var resp struct {
		Success bool `json:"success"`
	}
	return c.get(ctx, "api/v1/contract/ping", nil, false, &resp)
}

// GetKlines returns candles for the symbol, oldest first. MEXC interval
// notation: Min1, Min5, Min15, Min30, Min60, Hour4, Hour8, Day1.
func (c *MEXCClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	if limit > 0 {
		// The kline endpoint is windowed by time, not count.
		start := time.Now().Add(-time.Duration(limit) * intervalDuration(interval))
		params.Set("start", strconv.FormatInt(start.Unix(), 10))
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Time   []int64   `json:"time"`
			Open   []float64 `json:"open"`
			High   []float64 `json:"high"`
			Low    []float64 `json:"low"`
			Close  []float64 `json:"close"`
			Vol    []float64 `json:"vol"`
		} `json:"data"`
	}
	if err := c.get(ctx, "api/v1/contract/kline/"+symbol, params, false, &resp); err != nil {
		return nil, err
	}

	n := len(resp.Data.Time)
	candles := make([]types.OHLCV, 0, n)
	for i := 0; i < n; i++ {
		if i >= len(resp.Data.Open) || i >= len(resp.Data.High) ||
			i >= len(resp.Data.Low) || i >= len(resp.Data.Close) || i >= len(resp.Data.Vol) {
			break
		}
		candles = append(candles, types.OHLCV{
			Open:      resp.Data.Open[i],
			High:      resp.Data.High[i],
			Low:       resp.Data.Low[i],
			Close:     resp.Data.Close[i],
			Volume:    resp.Data.Vol[i],
			Timestamp: time.Unix(resp.Data.Time[i], 0).UTC(),
		})
	}

	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

// GetTicker returns the latest price for the symbol.
func (c *MEXCClient) GetTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Symbol    string  `json:"symbol"`
			LastPrice float64 `json:"lastPrice"`
			Volume24  float64 `json:"volume24"`
			Timestamp int64   `json:"timestamp"`
		} `json:"data"`
	}
	if err := c.get(ctx, "api/v1/contract/ticker", params, false, &resp); err != nil {
		return nil, err
	}

	return &types.Ticker{
		Symbol:    resp.Data.Symbol,
		Price:     resp.Data.LastPrice,
		Volume:    resp.Data.Volume24,
		Timestamp: time.UnixMilli(resp.Data.Timestamp).UTC(),
	}, nil
}

// GetContractSymbols lists USDT perpetual pairs open to API trading,
// sorted alphabetically.
func (c *MEXCClient) GetContractSymbols(ctx context.Context) ([]string, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Symbol     string `json:"symbol"`
			APIAllowed bool   `json:"apiAllowed"`
		} `json:"data"`
	}
	if err := c.get(ctx, "api/v1/contract/detail", nil, false, &resp); err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(resp.Data))
	for _, contract := range resp.Data {
		if strings.HasSuffix(contract.Symbol, "_USDT") && contract.APIAllowed {
			symbols = append(symbols, contract.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// GetAssetBalance returns the account balance for one currency. This is
// a private endpoint and requires API credentials.
func (c *MEXCClient) GetAssetBalance(ctx context.Context, currency string) (*types.Balance, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Currency         string  `json:"currency"`
			AvailableBalance float64 `json:"availableBalance"`
			FrozenBalance    float64 `json:"frozenBalance"`
		} `json:"data"`
	}
	if err := c.get(ctx, "api/v1/private/account/asset/"+currency, nil, true, &resp); err != nil {
		return nil, err
	}

	return &types.Balance{
		Asset:  resp.Data.Currency,
		Free:   resp.Data.AvailableBalance,
		Locked: resp.Data.FrozenBalance,
	}, nil
}

// get performs a rate-limited GET and decodes the JSON body into out.
func (c *MEXCClient) get(ctx context.Context, endpoint string, params url.Values, signed bool, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if signed {
		timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
		req.Header.Set("ApiKey", c.apiKey)
		req.Header.Set("Request-Time", timestamp)
		req.Header.Set("Signature", c.sign(timestamp, params))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response from %s: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

// sign builds the HMAC SHA256 signature over accessKey + timestamp +
// the sorted query string, per the MEXC contract API scheme.
func (c *MEXCClient) sign(timestamp string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params.Get(k))
	}
	payload := c.apiKey + timestamp + strings.Join(pairs, "&")

	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// intervalDuration maps MEXC interval notation to a bar duration, used
// to size the kline request window.
func intervalDuration(interval string) time.Duration {
	switch interval {
	case "Min1":
		return time.Minute
	case "Min5":
		return 5 * time.Minute
	case "Min15":
		return 15 * time.Minute
	case "Min30":
		return 30 * time.Minute
	case "Min60":
		return time.Hour
	case "Hour4":
		return 4 * time.Hour
	case "Hour8":
		return 8 * time.Hour
	case "Day1":
		return 24 * time.Hour
	default:
		return time.Minute
	}
}
