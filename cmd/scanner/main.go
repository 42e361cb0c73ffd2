package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ImpulseRadar/internal/collector"
	"ImpulseRadar/internal/config"
	"ImpulseRadar/internal/notifier"
	"ImpulseRadar/internal/recorder"
	"ImpulseRadar/internal/scanner"
	"ImpulseRadar/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ImpulseRadar starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "twelvedata":
		fetcher = collector.NewTwelveDataFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		yf := collector.NewYahooFetcher(cfg.Proxy)
		yf.BaseURL = cfg.DataSource.BaseURL
		fetcher = yf
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init notifiers
	var notifiers []notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notifiers = append(notifiers, tn)
	}
	if cfg.EmailEnabled() {
		en := notifier.NewEmailNotifier(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username,
			cfg.Email.Password, cfg.Email.From, cfg.Email.To, cfg.Email.Subject)
		notifiers = append(notifiers, en)
	}

	// Init recorder
	var rec recorder.Recorder
	switch {
	case cfg.Database.PostgresDSN != "":
		pr, err := recorder.NewPostgresRecorder(cfg.Database.PostgresDSN)
		if err != nil {
			log.Printf("[WARN] init postgres recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = pr
			defer pr.Close()
		}
	case cfg.Database.SQLitePath != "":
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	default:
		rec = recorder.NewNoopRecorder()
	}

	// Init scanner
	sc := scanner.New(cfg, fetcher, notifiers, rec)

	// One-shot mode: no cron spec means scan once and exit.
	if cfg.Schedule.Cron == "" {
		log.Println("[INFO] no cron schedule configured, running a single scan")
		if _, err := sc.Run(context.Background()); err != nil {
			log.Fatalf("[FATAL] scan: %v", err)
		}
		log.Println("[INFO] scan finished")
		return
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, sc, rec)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing a scan now")
		go sched.RunNow()
	}

	log.Println("[INFO] ImpulseRadar is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ImpulseRadar stopped")
}
