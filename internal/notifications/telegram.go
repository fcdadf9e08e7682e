package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/mexc-scalp-bot/internal/safety"
)

const (
	telegramAPIBase = "https://api.telegram.org"

	// Identical messages within this window are silently dropped, so a
	// signal that persists across scan cycles alerts once.
	defaultDedupTTL = 5 * time.Minute
)

// TelegramConfig holds the bot credentials.
type TelegramConfig struct {
	Token   string
	ChatID  string
	BaseURL string // overridable for tests
}

// TelegramNotifier sends HTML messages through the Telegram bot API,
// deduplicating repeats and keeping under the 1 message/second limit.
type TelegramNotifier struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
	limiter    *safety.RateLimiter

	mu       sync.Mutex
	sent     map[uint64]time.Time
	dedupTTL time.Duration
}

// NewTelegramNotifier creates a Telegram notifier.
func NewTelegramNotifier(cfg TelegramConfig) *TelegramNotifier {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = telegramAPIBase
	}
	return &TelegramNotifier{
		token:      cfg.Token,
		chatID:     cfg.ChatID,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    safety.NewRateLimiter("telegram", 1, time.Second),
		sent:       make(map[uint64]time.Time),
		dedupTTL:   defaultDedupTTL,
	}
}

// Send delivers a message with notification.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.send(ctx, text, false)
}

// SendSilent delivers a message without notification.
func (t *TelegramNotifier) SendSilent(ctx context.Context, text string) error {
	return t.send(ctx, text, true)
}

func (t *TelegramNotifier) send(ctx context.Context, text string, silent bool) error {
	if t.token == "" || t.chatID == "" {
		return fmt.Errorf("telegram token or chat id not configured")
	}

	if t.isDuplicate(text) {
		return nil
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"chat_id":              t.chatID,
		"text":                 text,
		"parse_mode":           "HTML",
		"disable_notification": silent,
	})
	if err != nil {
		return fmt.Errorf("encode telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	t.markSent(text)
	return nil
}

// isDuplicate reports whether the exact message was sent within the
// dedup window, pruning expired entries as it goes.
func (t *TelegramNotifier) isDuplicate(text string) bool {
	key := hashText(text)
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	for k, sentAt := range t.sent {
		if now.Sub(sentAt) > t.dedupTTL {
			delete(t.sent, k)
		}
	}

	_, dup := t.sent[key]
	return dup
}

func (t *TelegramNotifier) markSent(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent[hashText(text)] = time.Now()
}

func hashText(text string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	return h.Sum64()
}
