package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fortestingfmm-hub/fund-monitor/internal/collector"
	"github.com/fortestingfmm-hub/fund-monitor/internal/config"
	"github.com/fortestingfmm-hub/fund-monitor/internal/holdings"
	"github.com/fortestingfmm-hub/fund-monitor/internal/market"
	"github.com/fortestingfmm-hub/fund-monitor/internal/orchestrator"
	"github.com/fortestingfmm-hub/fund-monitor/internal/store"
)

const defaultConfigPath = "configs/config.yaml"

// app is the wired valuation pipeline shared by every subcommand.
type app struct {
	cfg    *config.Config
	runner *orchestrator.Runner
	store  store.HoldingsStore
}

// configPath resolves the config file: flag, then CONFIG_PATH, then the default.
func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return defaultConfigPath
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *config.Config) *app {
	ds := cfg.DataSource
	timeout := ds.Timeout.Std()
	v := cfg.Valuation

	var ak *collector.AKToolsClient
	if ds.QuoteProvider == "aktools" || ds.HoldingsProvider == "aktools" || ds.NameProvider == "aktools" {
		ak = collector.NewAKToolsClient(ds.AKToolsURL, ds.Proxy, timeout)
	}

	var feed collector.QuoteFeed
	switch ds.QuoteProvider {
	case "eastmoney":
		feed = collector.NewEastmoneyQuoteFeed(ds.Proxy, timeout)
	case "mock":
		feed = collector.NewMockFeed()
	default:
		feed = ak
	}
	log.Printf("[INFO] quote feed: %s", feed.Name())

	var strategies []holdings.Strategy
	if ds.HoldingsProvider == "mock" {
		strategies = holdings.DefaultStrategies(collector.NewMockHoldings(), nil)
	} else {
		strategies = holdings.DefaultStrategies(collector.NewEastmoneyHoldings(ak), collector.NewCNInfoHoldings(ak))
	}

	var names collector.NameSource
	switch ds.NameProvider {
	case "fundgz":
		names = collector.NewFundGZNameSource(ds.Proxy, timeout)
	case "aktools":
		names = ak
	}
	resolver := holdings.NewNameResolver(cfg.Overrides.Names, names, v.HoldingsTTL.Std())

	st := openStore(cfg.Database.SQLitePath)

	extractor := holdings.NewExtractor(strategies, resolver, v.HoldingsTTL.Std())
	extractor.Fallback = cfg.Overrides.Holdings
	extractor.Store = st
	extractor.Retries = v.HoldingsRetries
	extractor.RetryDelay = v.RetryDelay.Std()

	orch := orchestrator.New(extractor, resolver)
	orch.Mode = orchestrator.Mode(v.Mode)
	orch.Workers = v.Workers
	orch.SequentialDelay = v.SequentialDelay.Std()
	orch.FundTimeout = v.FundTimeout.Std()

	builder := market.NewBuilder(feed, v.SnapshotTTL.Std(), v.Retries, v.RetryDelay.Std())

	return &app{
		cfg:    cfg,
		runner: orchestrator.NewRunner(builder, orch),
		store:  st,
	}
}

// openStore opens the SQLite holdings store, falling back to a no-op store.
func openStore(path string) store.HoldingsStore {
	if path == "" {
		return store.NewNoopStore()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("[WARN] create data dir failed, using noop store: %v", err)
		return store.NewNoopStore()
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		log.Printf("[WARN] init sqlite store failed, using noop: %v", err)
		return store.NewNoopStore()
	}
	return s
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Printf("[WARN] close store: %v", err)
	}
}
