package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mexc-scalp-bot/internal/exchange"
	"github.com/mexc-scalp-bot/internal/indicators"
	"github.com/mexc-scalp-bot/internal/notifications"
	"github.com/mexc-scalp-bot/internal/strategy"
)

// Config is the complete runtime configuration, loaded from the
// environment. Credentials come from env vars (a .env file is loaded
// by main before Load runs); everything else has sane defaults.
type Config struct {
	Exchange exchange.Config
	Telegram notifications.TelegramConfig

	Bot BotConfig

	Indicators indicators.Config
	Entry      strategy.EntryConfig
	Exit       strategy.ExitConfig

	Monitoring MonitoringConfig
}

// BotConfig holds the scan loop settings.
type BotConfig struct {
	// ReferencePair drives the market-wide trend filter.
	ReferencePair string
	// Pairs is the fixed watchlist. Empty means discover all USDT
	// perpetual contracts from the venue.
	Pairs []string
	ExcludedPairs []string

	ScanInterval    time.Duration
	AnalysisCandles int
	// MaxPairsPerCycle bounds one cycle's API load when the discovered
	// watchlist is large.
	MaxPairsPerCycle int

	Leverage            float64
	PositionSizePercent float64
	MinPositionSizeUSDT float64
	AccountBalanceUSDT  float64

	StatusInterval time.Duration
}

// MonitoringConfig holds the metrics/health HTTP settings.
type MonitoringConfig struct {
	ListenAddr string
	Enabled    bool
}

// Load builds the configuration from environment variables.
func Load() *Config {
	return &Config{
		Exchange: exchange.Config{
			Name: getEnv("EXCHANGE_NAME", "mexc"),
			MEXC: exchange.MEXCConfig{
				APIKey:    getEnv("MEXC_API_KEY", ""),
				SecretKey: getEnv("MEXC_SECRET_KEY", ""),
			},
			Bybit: exchange.BybitConfig{
				APIKey:    getEnv("BYBIT_API_KEY", ""),
				APISecret: getEnv("BYBIT_API_SECRET", ""),
				Testnet:   getEnvBool("BYBIT_TESTNET", false),
			},
		},
		Telegram: notifications.TelegramConfig{
			Token:  getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID: getEnv("TELEGRAM_CHAT_ID", ""),
		},
		Bot: BotConfig{
			ReferencePair:       getEnv("REFERENCE_PAIR", "BTC_USDT"),
			Pairs:               getEnvList("MONITORED_PAIRS", nil),
			ExcludedPairs:       getEnvList("EXCLUDED_PAIRS", nil),
			ScanInterval:        getEnvDuration("SCAN_INTERVAL", time.Minute),
			AnalysisCandles:     getEnvInt("ANALYSIS_CANDLES", 100),
			MaxPairsPerCycle:    getEnvInt("MAX_PAIRS_PER_CYCLE", 20),
			Leverage:            getEnvFloat("LEVERAGE", 7),
			PositionSizePercent: getEnvFloat("POSITION_SIZE_PERCENT", 1.0),
			MinPositionSizeUSDT: getEnvFloat("MIN_POSITION_SIZE_USDT", 1.0),
			AccountBalanceUSDT:  getEnvFloat("ACCOUNT_BALANCE_USDT", 1000),
			StatusInterval:      getEnvDuration("STATUS_INTERVAL", time.Hour),
		},
		Indicators: indicators.DefaultConfig(),
		Entry:      strategy.DefaultEntryConfig(),
		Exit:       strategy.DefaultExitConfig(),
		Monitoring: MonitoringConfig{
			ListenAddr: getEnv("MONITORING_ADDR", ":8080"),
			Enabled:    getEnvBool("MONITORING_ENABLED", true),
		},
	}
}

// Validate checks the parts that cannot fail lazily at runtime.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Exchange.Name)) {
	case "", "mexc", "bybit":
	default:
		return fmt.Errorf("unsupported exchange %q", c.Exchange.Name)
	}

	if (c.Telegram.Token == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram requires both TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
	}

	if c.Bot.ScanInterval < 10*time.Second {
		return fmt.Errorf("scan interval %s is below the 10s minimum", c.Bot.ScanInterval)
	}
	if c.Bot.AnalysisCandles < 60 {
		return fmt.Errorf("analysis window of %d candles is too short for the slow EMA", c.Bot.AnalysisCandles)
	}
	if c.Bot.PositionSizePercent <= 0 || c.Bot.PositionSizePercent > 100 {
		return fmt.Errorf("position size percent must be in (0, 100]")
	}
	if c.Bot.Leverage < 1 {
		return fmt.Errorf("leverage must be at least 1")
	}

	return nil
}

// TelegramEnabled reports whether alert delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
