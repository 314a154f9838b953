package collector

import (
	"context"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// QuoteFeed delivers the full-market price change tables.
type QuoteFeed interface {
	FetchDomestic(ctx context.Context) ([]model.RawRow, error)
	FetchHongKong(ctx context.Context) ([]model.RawRow, error)
	Name() string
}

// HoldingsSource delivers raw disclosed holdings rows for one fund.
// An empty period asks the source for its default (most recent) disclosure.
type HoldingsSource interface {
	FetchHoldings(ctx context.Context, fundCode, period string) ([]model.RawRow, error)
	Name() string
}

// NameSource resolves a fund's display name.
type NameSource interface {
	FetchFundName(ctx context.Context, fundCode string) (string, error)
}
