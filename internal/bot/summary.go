package bot

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mexc-scalp-bot/internal/indicators"
)

// cycleResult is one row of the per-cycle console summary.
type cycleResult struct {
	Symbol string
	Event  string // entry or exit
	Detail string
	Price  float64
}

// printStartupInfo renders the run configuration once at startup.
func (b *ScalpBot) printStartupInfo() {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("SCALP BOT INITIALIZATION")
	t.SetStyle(table.StyleRounded)

	telegramState := "❌ disabled (console only)"
	if b.cfg.TelegramEnabled() {
		telegramState = "✅ enabled"
	}

	t.AppendRows([]table.Row{
		{"🏪 Venue", b.market.VenueName()},
		{"📊 Reference Pair", b.cfg.Bot.ReferencePair},
		{"💰 Monitored Pairs", fmt.Sprintf("%d", len(b.watchlist))},
		{"⏰ Scan Interval", b.cfg.Bot.ScanInterval.String()},
		{"🕯️ Analysis Window", fmt.Sprintf("%d candles (1m + 5m)", b.cfg.Bot.AnalysisCandles)},
		{"⚡ Leverage", fmt.Sprintf("%.0fx", b.cfg.Bot.Leverage)},
		{"💵 Position Size", fmt.Sprintf("%.1f%% of $%.2f", b.cfg.Bot.PositionSizePercent, b.cfg.Bot.AccountBalanceUSDT)},
		{"📨 Telegram", telegramState},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 28, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// printCycleSummary renders the signals emitted in one scan cycle. A
// quiet cycle gets a single log-style line instead of an empty table.
func (b *ScalpBot) printCycleSummary(refTrend indicators.TrendDirection, results []cycleResult, elapsed time.Duration) {
	if len(results) == 0 {
		fmt.Printf("[%s] scan complete: %d pairs, reference trend %s, no signals (%.1fs)\n",
			time.Now().UTC().Format("15:04:05"), len(b.watchlist), refTrend, elapsed.Seconds())
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("SCAN CYCLE (reference trend %s)", refTrend))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Pair", "Event", "Detail", "Price"})
	for _, res := range results {
		icon := "🚨"
		if res.Event == "exit" {
			icon = "🚪"
		}
		t.AppendRow(table.Row{res.Symbol, icon + " " + res.Event, res.Detail, fmt.Sprintf("$%.6f", res.Price)})
	}

	t.AppendFooter(table.Row{"", "", "open positions", fmt.Sprintf("%d", b.registry.Len())})
	t.Render()
	fmt.Println()
}
