package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"github.com/fortestingfmm-hub/fund-monitor/internal/api"
	"github.com/fortestingfmm-hub/fund-monitor/internal/notifier"
	"github.com/fortestingfmm-hub/fund-monitor/internal/scheduler"
)

type serveCmd struct {
	config     string
	runOnStart bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the scheduler, HTTP API and Telegram bot" }
func (*serveCmd) Usage() string {
	return `fundmonitor serve [-config <path>] [-run-on-start]

  Values the configured funds on the configured schedule, serves the latest
  results over HTTP and, when credentials are set, reports to Telegram.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "config file (defaults to $CONFIG_PATH or "+defaultConfigPath+")")
	f.BoolVar(&c.runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "run a valuation cycle immediately")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Println("[INFO] fund monitor starting...")

	cfg, err := loadConfig(configPath(c.config))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a := newApp(cfg)
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
		sender = tn
	} else {
		log.Println("[INFO] Telegram not configured, reports disabled")
	}

	codes := cfg.FundCodes()
	log.Printf("[INFO] monitoring %d funds: %v", len(codes), codes)

	sched := scheduler.NewScheduler(ctx, a.runner, codes, sender)
	if err := sched.RegisterAll(cfg.Schedule.ValuationCron, cfg.Schedule.ReportCron); err != nil {
		log.Printf("[FATAL] register cron tasks: %v", err)
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	srv := api.NewServer(cfg.API.Addr, api.NewHandlers(sched))
	srv.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if c.runOnStart {
		log.Println("[INFO] run-on-start enabled, executing valuation now")
		go sched.Refresh(ctx)
	}

	log.Println("[INFO] fund monitor is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Printf("[ERROR] API shutdown: %v", err)
	}
	log.Println("[INFO] fund monitor stopped")
	return subcommands.ExitSuccess
}
