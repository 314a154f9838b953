package market

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fortestingfmm-hub/fund-monitor/internal/cache"
	"github.com/fortestingfmm-hub/fund-monitor/internal/collector"
	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// ErrNetwork is returned when the mandatory domestic quotes cannot be fetched.
var ErrNetwork = errors.New("network error")

const snapshotKey = "snapshot"

var (
	codeAliases   = []string{"代码", "code", "f12"}
	changeAliases = []string{"涨跌幅", "change_percent", "f3"}
)

// Builder assembles snapshots from a quote feed and caches the result for a short TTL.
type Builder struct {
	Feed       collector.QuoteFeed
	Retries    int
	RetryDelay time.Duration

	cache *cache.Cache[*Snapshot]
}

// NewBuilder creates a builder. Snapshots are reused for ttl; concurrent
// callers inside that window share one in-flight fetch.
func NewBuilder(feed collector.QuoteFeed, ttl time.Duration, retries int, retryDelay time.Duration) *Builder {
	if retries <= 0 {
		retries = 3
	}
	if retryDelay < 0 {
		retryDelay = time.Second
	}
	return &Builder{
		Feed:       feed,
		Retries:    retries,
		RetryDelay: retryDelay,
		cache:      cache.New[*Snapshot](ttl),
	}
}

// Build returns the cached snapshot or fetches a fresh one.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	return b.cache.GetOrLoad(ctx, snapshotKey, b.fetch)
}

// Invalidate drops the cached snapshot so the next Build fetches again.
func (b *Builder) Invalidate() {
	b.cache.Clear()
}

func (b *Builder) fetch(ctx context.Context) (*Snapshot, error) {
	var domesticRows, hkRows []model.RawRow

	err := collector.Retry(ctx, b.Retries, b.RetryDelay, "domestic quotes", func(ctx context.Context) error {
		rows, err := b.Feed.FetchDomestic(ctx)
		if err != nil {
			return err
		}
		domesticRows = rows
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] Domestic quotes from %s unavailable: %v", b.Feed.Name(), err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	hkDegraded := false
	err = collector.Retry(ctx, b.Retries, b.RetryDelay, "hong kong quotes", func(ctx context.Context) error {
		rows, err := b.Feed.FetchHongKong(ctx)
		if err != nil {
			return err
		}
		hkRows = rows
		return nil
	})
	if err != nil {
		log.Printf("[WARN] Hong Kong quotes from %s unavailable, continuing without them: %v", b.Feed.Name(), err)
		hkRows = nil
		hkDegraded = true
	}

	domestic, skippedA := ParseRows(domesticRows)
	hongKong, skippedHK := ParseRows(hkRows)

	snap := &Snapshot{
		changes:    make(map[string]float64, len(domestic)+len(hongKong)),
		builtAt:    time.Now(),
		hkDegraded: hkDegraded,
	}
	for _, pc := range domestic {
		snap.changes[pc.Code] = pc.ChangePercent
	}
	for _, pc := range hongKong {
		snap.changes[pc.Code] = pc.ChangePercent
	}
	snap.domestic = len(domestic)
	snap.hongKong = len(hongKong)

	log.Printf("[INFO] Market snapshot built from %s: %d domestic, %d HK (skipped %d/%d rows)",
		b.Feed.Name(), snap.domestic, snap.hongKong, skippedA, skippedHK)
	return snap, nil
}

// ParseRows converts feed rows into price changes. Rows without a code or
// with a missing or non-numeric change are skipped and counted.
func ParseRows(rows []model.RawRow) ([]model.PriceChange, int) {
	out := make([]model.PriceChange, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		code := collector.ToString(firstPresent(row, codeAliases))
		change, ok := collector.ToFloat(firstPresent(row, changeAliases))
		if code == "" || !ok {
			skipped++
			continue
		}
		out = append(out, model.PriceChange{Code: code, ChangePercent: change})
	}
	return out, skipped
}

func firstPresent(row model.RawRow, keys []string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
