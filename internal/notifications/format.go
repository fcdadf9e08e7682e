package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/mexc-scalp-bot/internal/strategy"
	"github.com/mexc-scalp-bot/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

// FormatEntryAlert renders an entry signal as a Telegram HTML message.
func FormatEntryAlert(symbol string, sig *strategy.Signal, positionSize, leverage float64) string {
	directionEmoji := "🟢"
	if sig.Direction == types.DirectionShort {
		directionEmoji = "🔴"
	}

	var reasons strings.Builder
	for _, reason := range sig.Reasons {
		reasons.WriteString("• ")
		reasons.WriteString(reason)
		reasons.WriteString("\n")
	}

	rsiShort := "n/a"
	if sig.RSIShort != nil {
		rsiShort = fmt.Sprintf("%.1f", *sig.RSIShort)
	}
	rsiLong := "n/a"
	if sig.RSILong != nil {
		rsiLong = fmt.Sprintf("%.1f", *sig.RSILong)
	}
	spike := "❌"
	if sig.VolumeSpike {
		spike = "✅"
	}

	return strings.TrimSpace(fmt.Sprintf(`
%s <b>ENTRY SIGNAL DETECTED</b> %s

💰 <b>Pair:</b> %s
📈 <b>Direction:</b> %s
💵 <b>Current Price:</b> $%.6f
📊 <b>RSI 7:</b> %s | <b>RSI 14:</b> %s
📊 <b>Volume Spike:</b> %s

🎯 <b>Fibonacci Targets:</b>
• TP1 (38.2%%): $%.6f
• TP2 (61.8%%): $%.6f
• TP3 (100%%): $%.6f

🛡️ <b>Suggested Stop Loss:</b> $%.6f

⚡ <b>Leverage:</b> %.0fx
💰 <b>Position Size:</b> $%.2f USDT
⭐ <b>Signal Strength:</b> %d/7

📊 <b>Signal Reasons:</b>
%s
⏰ <b>Time:</b> %s`,
		directionEmoji, directionEmoji,
		symbol,
		sig.Direction,
		sig.Price,
		rsiShort, rsiLong,
		spike,
		sig.Targets.TP1, sig.Targets.TP2, sig.Targets.TP3,
		sig.StopLoss,
		leverage,
		positionSize,
		sig.Strength,
		reasons.String(),
		time.Now().UTC().Format(timeLayout),
	))
}

// FormatExitAlert renders an exit decision as a Telegram HTML message.
func FormatExitAlert(pos *types.Position, decision *strategy.ExitDecision) string {
	typeEmoji := map[strategy.ExitType]string{
		strategy.ExitTakeProfit:   "🎯",
		strategy.ExitStopLoss:     "🛡️",
		strategy.ExitTrailingStop: "📈",
		strategy.ExitReversal:     "🔄",
	}
	emoji, ok := typeEmoji[decision.Type]
	if !ok {
		emoji = "🚪"
	}

	profitEmoji := "❌"
	if decision.ProfitPct > 0 {
		profitEmoji = "💚"
	}

	return strings.TrimSpace(fmt.Sprintf(`
%s <b>EXIT SIGNAL DETECTED</b> %s

💰 <b>Pair:</b> %s
📈 <b>Direction:</b> %s
💵 <b>Entry Price:</b> $%.6f
💵 <b>Current Price:</b> $%.6f
%s <b>P&amp;L:</b> %+.2f%%

🚪 <b>Exit Type:</b> %s
📋 <b>Reason:</b> %s

⏰ <b>Time:</b> %s`,
		emoji, emoji,
		pos.Symbol,
		pos.Direction,
		pos.EntryPrice,
		decision.SuggestedPrice,
		profitEmoji, decision.ProfitPct,
		exitTypeTitle(decision.Type),
		decision.Reason,
		time.Now().UTC().Format(timeLayout),
	))
}

// StatusUpdate is the payload of a periodic status message.
type StatusUpdate struct {
	Status         string
	LastAnalysis   string
	SignalsToday   int
	MonitoredPairs int
	NextAnalysis   string
}

// FormatStatusUpdate renders a bot status message.
func FormatStatusUpdate(status StatusUpdate) string {
	return strings.TrimSpace(fmt.Sprintf(`
📊 <b>BOT STATUS</b>

✅ <b>Status:</b> %s
🔄 <b>Last Analysis:</b> %s
📈 <b>Signals Sent Today:</b> %d
💰 <b>Monitored Pairs:</b> %d
⏰ <b>Next Analysis:</b> %s`,
		status.Status,
		status.LastAnalysis,
		status.SignalsToday,
		status.MonitoredPairs,
		status.NextAnalysis,
	))
}

// FormatErrorAlert renders an error report message.
func FormatErrorAlert(errMessage, location string) string {
	return strings.TrimSpace(fmt.Sprintf(`
❌ <b>TRADING BOT ERROR</b>

🔍 <b>Error:</b> %s
📍 <b>Location:</b> %s
⏰ <b>Time:</b> %s`,
		errMessage,
		location,
		time.Now().UTC().Format(timeLayout),
	))
}

// exitTypeTitle renders the exit type tag as a title: take_profit
// becomes "Take Profit".
func exitTypeTitle(t strategy.ExitType) string {
	words := strings.Split(t.String(), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
