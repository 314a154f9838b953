package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// DefaultFundCode is valued when no fund codes are configured.
const DefaultFundCode = "005827"

// Duration is a time.Duration written as "1.5s", "20s", "6h" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		QuoteProvider    string   `yaml:"quote_provider"`    // aktools | eastmoney | mock
		HoldingsProvider string   `yaml:"holdings_provider"` // aktools | mock
		NameProvider     string   `yaml:"name_provider"`     // fundgz | aktools | none
		AKToolsURL       string   `yaml:"aktools_url"`
		Proxy            string   `yaml:"proxy"`
		Timeout          Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Funds struct {
		// Codes is free text: one code per line (commas also accepted).
		Codes string `yaml:"codes"`
	} `yaml:"funds"`
	Overrides struct {
		Names    map[string]string          `yaml:"names"`
		Holdings map[string][]model.Holding `yaml:"holdings"`
	} `yaml:"overrides"`
	Valuation struct {
		Mode            string   `yaml:"mode"` // concurrent | sequential
		Workers         int      `yaml:"workers"`
		SequentialDelay Duration `yaml:"sequential_delay"`
		FundTimeout     Duration `yaml:"fund_timeout"`
		SnapshotTTL     Duration `yaml:"snapshot_ttl"`
		HoldingsTTL     Duration `yaml:"holdings_ttl"`
		Retries         int      `yaml:"retries"`
		RetryDelay      Duration `yaml:"retry_delay"`
		HoldingsRetries int      `yaml:"holdings_retries"`
	} `yaml:"valuation"`
	Schedule struct {
		ValuationCron string `yaml:"valuation_cron"`
		ReportCron    string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// defaultNames are curated display names of commonly watched funds.
var defaultNames = map[string]string{
	"005827": "易方达蓝筹精选混合",
	"161725": "招商中证白酒指数(LOF)A",
	"110011": "易方达优质精选混合(QDII)",
	"003096": "中欧医疗健康混合A",
	"260108": "景顺长城新兴成长混合",
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FUND_CODES"); v != "" {
		c.Funds.Codes = v
	}
	if v := os.Getenv("AKTOOLS_BASE_URL"); v != "" {
		c.DataSource.AKToolsURL = v
	}
	if v := os.Getenv("QUOTE_PROVIDER"); v != "" {
		c.DataSource.QuoteProvider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.DataSource.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("VALUATION_MODE"); v != "" {
		c.Valuation.Mode = v
	}
	if v := os.Getenv("VALUATION_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Valuation.Workers = n
		}
	}
}

func (c *Config) applyDefaults() {
	ds := &c.DataSource
	if ds.QuoteProvider == "" {
		ds.QuoteProvider = "aktools"
	}
	if ds.HoldingsProvider == "" {
		ds.HoldingsProvider = "aktools"
		if ds.QuoteProvider == "mock" {
			ds.HoldingsProvider = "mock"
		}
	}
	if ds.NameProvider == "" {
		ds.NameProvider = "fundgz"
	}
	if ds.AKToolsURL == "" {
		ds.AKToolsURL = "http://127.0.0.1:8080"
	}
	if ds.Timeout == 0 {
		ds.Timeout = Duration(30 * time.Second)
	}

	if c.Overrides.Names == nil {
		c.Overrides.Names = make(map[string]string, len(defaultNames))
	}
	for code, name := range defaultNames {
		if _, ok := c.Overrides.Names[code]; !ok {
			c.Overrides.Names[code] = name
		}
	}

	v := &c.Valuation
	if v.Mode == "" {
		v.Mode = "concurrent"
	}
	if v.Workers == 0 {
		v.Workers = 4
	}
	if v.SequentialDelay == 0 {
		v.SequentialDelay = Duration(1500 * time.Millisecond)
	}
	if v.FundTimeout == 0 {
		v.FundTimeout = Duration(20 * time.Second)
	}
	if v.SnapshotTTL == 0 {
		v.SnapshotTTL = Duration(60 * time.Second)
	}
	if v.HoldingsTTL == 0 {
		v.HoldingsTTL = Duration(6 * time.Hour)
	}
	if v.Retries == 0 {
		v.Retries = 3
	}
	if v.RetryDelay == 0 {
		v.RetryDelay = Duration(time.Second)
	}
	if v.HoldingsRetries == 0 {
		v.HoldingsRetries = 2
	}

	// trading sessions, Shanghai time: every 5 minutes 09:30-15:00 on weekdays
	if c.Schedule.ValuationCron == "" {
		c.Schedule.ValuationCron = "0 */5 9-14 * * 1-5"
	}
	if c.Schedule.ReportCron == "" {
		c.Schedule.ReportCron = "0 5 15 * * 1-5"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8090"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/fund_monitor.db"
	}
}

// FundCodes returns the configured fund codes, or the default fund when none are set.
func (c *Config) FundCodes() []string {
	codes := ParseFundCodes(c.Funds.Codes)
	if len(codes) == 0 {
		return []string{DefaultFundCode}
	}
	return codes
}

// ParseFundCodes splits free text into codes: one per line or comma
// separated, trimmed, blanks dropped, duplicates removed (first wins).
func ParseFundCodes(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	seen := make(map[string]bool, len(fields))
	codes := make([]string, 0, len(fields))
	for _, f := range fields {
		code := strings.TrimSpace(f)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

// TelegramEnabled reports whether the bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.DataSource.QuoteProvider {
	case "aktools", "eastmoney", "mock":
	default:
		return fmt.Errorf("data_source.quote_provider must be aktools, eastmoney or mock, got %q", c.DataSource.QuoteProvider)
	}
	switch c.DataSource.HoldingsProvider {
	case "aktools", "mock":
	default:
		return fmt.Errorf("data_source.holdings_provider must be aktools or mock, got %q", c.DataSource.HoldingsProvider)
	}
	switch c.DataSource.NameProvider {
	case "fundgz", "aktools", "none":
	default:
		return fmt.Errorf("data_source.name_provider must be fundgz, aktools or none, got %q", c.DataSource.NameProvider)
	}
	if c.usesAKTools() && c.DataSource.AKToolsURL == "" {
		return fmt.Errorf("data_source.aktools_url is required")
	}
	switch c.Valuation.Mode {
	case "concurrent", "sequential":
	default:
		return fmt.Errorf("valuation.mode must be concurrent or sequential, got %q", c.Valuation.Mode)
	}
	if c.Valuation.Workers < 1 {
		return fmt.Errorf("valuation.workers must be positive")
	}
	if c.Valuation.Retries < 1 || c.Valuation.HoldingsRetries < 1 {
		return fmt.Errorf("valuation retries must be positive")
	}
	if _, err := cronParser.Parse(c.Schedule.ValuationCron); err != nil {
		return fmt.Errorf("schedule.valuation_cron: %w", err)
	}
	if _, err := cronParser.Parse(c.Schedule.ReportCron); err != nil {
		return fmt.Errorf("schedule.report_cron: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	for code, items := range c.Overrides.Holdings {
		for _, h := range items {
			if h.Code == "" {
				return fmt.Errorf("overrides.holdings.%s: holding without code", code)
			}
		}
	}
	return nil
}

func (c *Config) usesAKTools() bool {
	return c.DataSource.QuoteProvider == "aktools" ||
		c.DataSource.HoldingsProvider == "aktools" ||
		c.DataSource.NameProvider == "aktools"
}
