package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if codes := cfg.FundCodes(); len(codes) != 1 || codes[0] != DefaultFundCode {
		t.Errorf("expected default fund, got %v", codes)
	}
	if cfg.Valuation.Workers != 4 || cfg.Valuation.Mode != "concurrent" {
		t.Errorf("unexpected valuation defaults %+v", cfg.Valuation)
	}
	if cfg.Valuation.SnapshotTTL.Std() != time.Minute || cfg.Valuation.SequentialDelay.Std() != 1500*time.Millisecond {
		t.Errorf("unexpected duration defaults %+v", cfg.Valuation)
	}
	if cfg.Overrides.Names["005827"] == "" {
		t.Error("expected curated names")
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled without credentials")
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
data_source:
  quote_provider: eastmoney
  timeout: 10s
funds:
  codes: |
    005827

     161725 
    110011, 003096
overrides:
  names:
    "005827": 自定义名称
  holdings:
    "003096":
      - {code: "603259", name: 药明康德, weight: 8.5}
      - {code: "300760", name: 迈瑞医疗, weight: 7.2}
valuation:
  mode: sequential
  sequential_delay: 2s
  fund_timeout: 15s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := []string{"005827", "161725", "110011", "003096"}
	got := cfg.FundCodes()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("FundCodes = %v, want %v", got, want)
	}
	if cfg.Overrides.Names["005827"] != "自定义名称" {
		t.Errorf("file name override lost: %q", cfg.Overrides.Names["005827"])
	}
	if cfg.Overrides.Names["161725"] == "" {
		t.Error("curated names should fill gaps")
	}
	if h := cfg.Overrides.Holdings["003096"]; len(h) != 2 || h[0].Code != "603259" || h[0].Weight != 8.5 {
		t.Errorf("unexpected fallback holdings %+v", h)
	}
	if cfg.DataSource.Timeout.Std() != 10*time.Second || cfg.Valuation.SequentialDelay.Std() != 2*time.Second {
		t.Errorf("durations not parsed: %+v", cfg.Valuation)
	}
	if cfg.Valuation.Mode != "sequential" {
		t.Errorf("expected sequential mode, got %s", cfg.Valuation.Mode)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FUND_CODES", "161725,260108")
	t.Setenv("QUOTE_PROVIDER", "mock")
	t.Setenv("VALUATION_WORKERS", "8")
	t.Setenv("API_ADDR", ":9999")

	cfg, err := Load(writeConfig(t, "funds:\n  codes: \"005827\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.FundCodes(); len(got) != 2 || got[0] != "161725" {
		t.Errorf("env fund codes not applied: %v", got)
	}
	if cfg.DataSource.QuoteProvider != "mock" || cfg.DataSource.HoldingsProvider != "mock" {
		t.Errorf("unexpected providers %+v", cfg.DataSource)
	}
	if cfg.Valuation.Workers != 8 || cfg.API.Addr != ":9999" {
		t.Errorf("env overrides not applied: workers=%d addr=%s", cfg.Valuation.Workers, cfg.API.Addr)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	if _, err := Load(writeConfig(t, "valuation:\n  fund_timeout: soon\n")); err == nil {
		t.Fatal("expected parse error for bad duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider", func(c *Config) { c.DataSource.QuoteProvider = "bloomberg" }},
		{"mode", func(c *Config) { c.Valuation.Mode = "parallel" }},
		{"workers", func(c *Config) { c.Valuation.Workers = -1 }},
		{"cron", func(c *Config) { c.Schedule.ValuationCron = "every minute" }},
		{"telegram half", func(c *Config) { c.Telegram.BotToken = "token" }},
		{"holding code", func(c *Config) {
			c.Overrides.Holdings = map[string][]model.Holding{"003096": {{Weight: 1}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseFundCodes(t *testing.T) {
	got := ParseFundCodes("  005827 \r\n\n161725,,\n005827\n")
	if strings.Join(got, ",") != "005827,161725" {
		t.Errorf("ParseFundCodes = %v", got)
	}
	if len(ParseFundCodes("   \n  ")) != 0 {
		t.Error("blank text should yield no codes")
	}
}
