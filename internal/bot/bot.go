package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mexc-scalp-bot/internal/config"
	"github.com/mexc-scalp-bot/internal/exchange"
	"github.com/mexc-scalp-bot/internal/indicators"
	"github.com/mexc-scalp-bot/internal/market"
	"github.com/mexc-scalp-bot/internal/monitoring"
	"github.com/mexc-scalp-bot/internal/notifications"
	"github.com/mexc-scalp-bot/internal/position"
	"github.com/mexc-scalp-bot/internal/strategy"
	"github.com/mexc-scalp-bot/pkg/types"
)

// ScalpBot scans the watchlist on a fixed interval, scores entries on
// the 1m/5m timeframe pair and tracks open suggestions until an exit
// rule fires. It never places orders; every decision goes out as a
// Telegram alert for manual execution.
type ScalpBot struct {
	cfg      *config.Config
	market   *market.Provider
	engine   *indicators.Engine
	scorer   *strategy.EntryScorer
	exits    *strategy.ExitEvaluator
	notifier notifications.Notifier
	registry *position.Registry
	health   *monitoring.HealthChecker

	watchlist []string

	signalsToday int
	signalsDay   time.Time
	lastAnalysis time.Time
}

// New wires a bot from its configuration and an exchange client. The
// notifier may be a NopNotifier when Telegram is not configured.
func New(cfg *config.Config, client exchange.Client, notifier notifications.Notifier, health *monitoring.HealthChecker) *ScalpBot {
	if notifier == nil {
		notifier = notifications.NopNotifier{}
	}
	return &ScalpBot{
		cfg:      cfg,
		market:   market.NewProvider(client),
		engine:   indicators.NewEngine(cfg.Indicators),
		scorer:   strategy.NewEntryScorer(cfg.Entry),
		exits:    strategy.NewExitEvaluator(cfg.Exit),
		notifier: notifier,
		registry: position.NewRegistry(),
		health:   health,
	}
}

// Run blocks until the context is cancelled, scanning the market once
// per configured interval.
func (b *ScalpBot) Run(ctx context.Context) error {
	if err := b.initialize(ctx); err != nil {
		return err
	}

	b.printStartupInfo()

	if err := b.notifier.Send(ctx, "🤖 MEXC scalping bot started"); err != nil {
		log.Printf("start message not delivered: %v", err)
	}
	defer func() {
		// Run's ctx is already done here, give the farewell its own.
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.notifier.Send(stopCtx, "🛑 MEXC scalping bot stopped"); err != nil {
			log.Printf("stop message not delivered: %v", err)
		}
	}()

	ticker := time.NewTicker(b.cfg.Bot.ScanInterval)
	defer ticker.Stop()
	statusTicker := time.NewTicker(b.cfg.Bot.StatusInterval)
	defer statusTicker.Stop()

	b.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("stop signal received, shutting down")
			return nil
		case <-ticker.C:
			b.runCycle(ctx)
		case <-statusTicker.C:
			b.sendStatusUpdate(ctx)
		}
	}
}

// initialize verifies venue connectivity and resolves the watchlist.
func (b *ScalpBot) initialize(ctx context.Context) error {
	if err := b.market.Ping(ctx); err != nil {
		if b.health != nil {
			b.health.SetConnected(false)
		}
		return fmt.Errorf("venue %s not reachable: %w", b.market.VenueName(), err)
	}
	if b.health != nil {
		b.health.SetConnected(true)
	}

	if len(b.cfg.Bot.Pairs) > 0 {
		b.watchlist = b.cfg.Bot.Pairs
	} else {
		symbols, err := b.market.Symbols(ctx, b.cfg.Bot.ExcludedPairs)
		if err != nil {
			return fmt.Errorf("discover USDT pairs: %w", err)
		}
		b.watchlist = symbols
	}
	if max := b.cfg.Bot.MaxPairsPerCycle; max > 0 && len(b.watchlist) > max {
		b.watchlist = b.watchlist[:max]
	}

	log.Printf("monitoring %d pairs on %s", len(b.watchlist), b.market.VenueName())
	return nil
}

// runCycle performs one full scan: reference trend first, then every
// watched pair, exits before entries per symbol.
func (b *ScalpBot) runCycle(ctx context.Context) {
	start := time.Now()
	b.rollSignalDay(start)

	refTrend := b.referenceTrend(ctx)

	var results []cycleResult
	for _, symbol := range b.watchlist {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := b.analyzeSymbol(ctx, symbol, refTrend)
		if err != nil {
			monitoring.RecordError("api")
			if b.health != nil {
				b.health.AddError(fmt.Sprintf("%s: %v", symbol, err))
			}
			log.Printf("analyze %s: %v", symbol, err)
			continue
		}
		if res != nil {
			results = append(results, *res)
		}
	}

	b.lastAnalysis = time.Now().UTC()
	elapsed := time.Since(start)
	monitoring.RecordScanCycle(elapsed.Seconds())
	if b.health != nil {
		b.health.RecordScan(len(b.watchlist), b.registry.Len())
	}

	b.printCycleSummary(refTrend, results, elapsed)
}

// referenceTrend classifies the market-wide trend from the reference
// pair's long timeframe. Neutral when the data is unavailable.
func (b *ScalpBot) referenceTrend(ctx context.Context) indicators.TrendDirection {
	_, longSeries, err := b.market.Timeframes(ctx, b.cfg.Bot.ReferencePair, b.cfg.Bot.AnalysisCandles)
	if err != nil {
		monitoring.RecordError("api")
		log.Printf("reference pair %s: %v", b.cfg.Bot.ReferencePair, err)
		return indicators.TrendNeutral
	}
	return strategy.AnalyzeReferenceTrend(b.engine.Snapshot(longSeries))
}

// analyzeSymbol evaluates one pair. An open position is checked for
// exit conditions and nothing else; a flat symbol is scored for entry.
func (b *ScalpBot) analyzeSymbol(ctx context.Context, symbol string, refTrend indicators.TrendDirection) (*cycleResult, error) {
	shortSeries, longSeries, err := b.market.Timeframes(ctx, symbol, b.cfg.Bot.AnalysisCandles)
	if err != nil {
		return nil, err
	}

	shortTF := b.engine.Snapshot(shortSeries)
	longTF := b.engine.Snapshot(longSeries)
	monitoring.UpdatePrice(symbol, shortTF.Price)

	if pos, ok := b.registry.Get(symbol); ok {
		decision := b.exits.EvaluateExit(pos, shortTF, longTF, shortSeries)
		if !decision.ShouldExit {
			return nil, nil
		}

		b.registry.Close(symbol)
		monitoring.RecordExitSignal(symbol, decision.Type.String())
		if err := b.notifier.Send(ctx, notifications.FormatExitAlert(pos, decision)); err != nil {
			monitoring.RecordError("telegram")
			log.Printf("exit alert %s: %v", symbol, err)
		}
		return &cycleResult{
			Symbol: symbol,
			Event:  "exit",
			Detail: decision.Reason,
			Price:  decision.SuggestedPrice,
		}, nil
	}

	sig := b.scorer.ScoreEntry(shortTF, longTF, refTrend, shortSeries, longSeries)
	if !sig.Valid {
		return nil, nil
	}

	size := strategy.PositionSize(
		b.cfg.Bot.AccountBalanceUSDT,
		b.cfg.Bot.PositionSizePercent,
		b.cfg.Bot.MinPositionSizeUSDT,
	)

	b.registry.Open(&types.Position{
		Symbol:     symbol,
		Direction:  sig.Direction,
		EntryPrice: sig.Price,
		Targets:    sig.Targets,
	})
	monitoring.RecordEntrySignal(symbol, sig.Direction.String(), sig.Strength)
	b.signalsToday++

	if err := b.notifier.Send(ctx, notifications.FormatEntryAlert(symbol, sig, size, b.cfg.Bot.Leverage)); err != nil {
		monitoring.RecordError("telegram")
		log.Printf("entry alert %s: %v", symbol, err)
	}

	return &cycleResult{
		Symbol: symbol,
		Event:  "entry",
		Detail: fmt.Sprintf("%s %d/7", sig.Direction, sig.Strength),
		Price:  sig.Price,
	}, nil
}

// sendStatusUpdate pushes a silent periodic heartbeat to Telegram.
func (b *ScalpBot) sendStatusUpdate(ctx context.Context) {
	last := "n/a"
	if !b.lastAnalysis.IsZero() {
		last = b.lastAnalysis.Format("2006-01-02 15:04:05 UTC")
	}
	msg := notifications.FormatStatusUpdate(notifications.StatusUpdate{
		Status:         "running",
		LastAnalysis:   last,
		SignalsToday:   b.signalsToday,
		MonitoredPairs: len(b.watchlist),
		NextAnalysis:   fmt.Sprintf("in %s", b.cfg.Bot.ScanInterval),
	})
	if err := b.notifier.SendSilent(ctx, msg); err != nil {
		monitoring.RecordError("telegram")
		log.Printf("status update: %v", err)
	}
}

// rollSignalDay resets the daily signal counter at UTC midnight.
func (b *ScalpBot) rollSignalDay(now time.Time) {
	day := now.UTC().Truncate(24 * time.Hour)
	if !day.Equal(b.signalsDay) {
		b.signalsDay = day
		b.signalsToday = 0
	}
}

// OpenPositions returns the currently tracked suggestions.
func (b *ScalpBot) OpenPositions() []*types.Position {
	return b.registry.All()
}

// SignalsToday returns the number of entry signals emitted since UTC
// midnight.
func (b *ScalpBot) SignalsToday() int {
	return b.signalsToday
}
