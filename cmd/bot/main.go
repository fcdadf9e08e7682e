package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mexc-scalp-bot/internal/bot"
	"github.com/mexc-scalp-bot/internal/config"
	"github.com/mexc-scalp-bot/internal/exchange"
	"github.com/mexc-scalp-bot/internal/monitoring"
	"github.com/mexc-scalp-bot/internal/notifications"
)

func main() {
	envFile := flag.String("env", ".env", "Path to environment file")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("No env file loaded (%v), using process environment", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	client, err := exchange.New(cfg.Exchange)
	if err != nil {
		log.Fatalf("Exchange setup failed: %v", err)
	}

	var notifier notifications.Notifier
	if cfg.TelegramEnabled() {
		notifier = notifications.NewTelegramNotifier(cfg.Telegram)
	} else {
		log.Println("Telegram not configured, alerts go to console only")
		notifier = notifications.NopNotifier{}
	}

	healthChecker := monitoring.NewHealthChecker(3 * cfg.Bot.ScanInterval)
	if cfg.Monitoring.Enabled {
		go serveMonitoring(cfg.Monitoring.ListenAddr, healthChecker)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scalpBot := bot.New(cfg, client, notifier, healthChecker)
	if err := scalpBot.Run(ctx); err != nil {
		log.Fatalf("Bot error: %v", err)
	}

	log.Println("Bot stopped successfully")
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err != nil {
		return err
	}
	return godotenv.Load(envFile)
}

func serveMonitoring(addr string, healthChecker *monitoring.HealthChecker) {
	mux := http.NewServeMux()
	mux.Handle("/health", healthChecker)
	mux.Handle("/metrics", monitoring.NewMetricsHandler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("Monitoring server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Monitoring server error: %v", err)
	}
}
