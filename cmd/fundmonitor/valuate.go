package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/fortestingfmm-hub/fund-monitor/internal/config"
	"github.com/fortestingfmm-hub/fund-monitor/internal/report"
)

type valuateCmd struct {
	config  string
	codes   string
	details bool
	asJSON  bool
	raw     bool
	width   int
}

func (*valuateCmd) Name() string     { return "valuate" }
func (*valuateCmd) Synopsis() string { return "run one valuation cycle and print the result" }
func (*valuateCmd) Usage() string {
	return `fundmonitor valuate [-config <path>] [-codes <c1,c2>] [-details] [-json] [-raw]

  Estimates the intraday change of the configured funds once and prints a report.
`
}

func (c *valuateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "config file (defaults to $CONFIG_PATH or "+defaultConfigPath+")")
	f.StringVar(&c.codes, "codes", "", "comma separated fund codes, overriding the config")
	f.BoolVar(&c.details, "details", false, "include per-holding contributions")
	f.BoolVar(&c.asJSON, "json", false, "print the result set as JSON")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
	f.IntVar(&c.width, "width", 100, "word wrap width of the terminal report")
}

func (c *valuateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(configPath(c.config))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	codes := cfg.FundCodes()
	if c.codes != "" {
		codes = config.ParseFundCodes(c.codes)
	}
	if len(codes) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no fund codes given")
		return subcommands.ExitUsageError
	}

	a := newApp(cfg)
	defer a.Close()

	rs := a.runner.RunCycle(ctx, codes)

	if c.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rs); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	md := report.Markdown(rs, c.details)
	if c.raw {
		fmt.Print(md)
	} else {
		fmt.Print(report.Render(md, c.width))
	}
	if rs.Snapshot.Error != "" {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
