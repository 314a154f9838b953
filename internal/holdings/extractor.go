package holdings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/fortestingfmm-hub/fund-monitor/internal/cache"
	"github.com/fortestingfmm-hub/fund-monitor/internal/collector"
	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
	"github.com/fortestingfmm-hub/fund-monitor/internal/store"
)

// ErrUnavailable means no source, override or stored snapshot produced holdings.
var ErrUnavailable = errors.New("holdings unavailable")

// Strategy is one step of the fetch chain: which source to ask, for which period.
type Strategy struct {
	Name   string
	Source collector.HoldingsSource
	Period func(now time.Time) string
}

func defaultPeriod(time.Time) string    { return "" }
func currentYear(now time.Time) string  { return strconv.Itoa(now.Year()) }
func previousYear(now time.Time) string { return strconv.Itoa(now.Year() - 1) }

// DefaultStrategies is the standard chain: the primary source's latest
// disclosure, the primary source for this year, the secondary source, then
// the primary source for last year.
func DefaultStrategies(primary, secondary collector.HoldingsSource) []Strategy {
	chain := []Strategy{
		{Name: primary.Name() + ":latest", Source: primary, Period: defaultPeriod},
		{Name: primary.Name() + ":current-year", Source: primary, Period: currentYear},
	}
	if secondary != nil {
		chain = append(chain, Strategy{Name: secondary.Name() + ":latest", Source: secondary, Period: defaultPeriod})
	}
	return append(chain, Strategy{Name: primary.Name() + ":previous-year", Source: primary, Period: previousYear})
}

// Extractor resolves a fund's canonical holdings.
type Extractor struct {
	Strategies []Strategy
	Names      *NameResolver
	// Fallback holds manually maintained holdings, used when every live strategy comes back empty.
	Fallback   map[string][]model.Holding
	Store      store.HoldingsStore
	Retries    int
	RetryDelay time.Duration
	Now        func() time.Time

	cache *cache.Cache[model.Holdings]
}

// NewExtractor creates an extractor whose results are cached per fund for ttl.
func NewExtractor(strategies []Strategy, names *NameResolver, ttl time.Duration) *Extractor {
	return &Extractor{
		Strategies: strategies,
		Names:      names,
		Store:      store.NewNoopStore(),
		Retries:    2,
		RetryDelay: time.Second,
		Now:        time.Now,
		cache:      cache.New[model.Holdings](ttl),
	}
}

// Fetch returns the fund's holdings, trying in order: the cache, each live
// strategy, the configured fallback, and the last stored snapshot.
func (e *Extractor) Fetch(ctx context.Context, fundCode string) (model.Holdings, error) {
	if h, ok := e.cache.Get(fundCode); ok {
		return h, nil
	}

	for _, s := range e.Strategies {
		if err := ctx.Err(); err != nil {
			return model.Holdings{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		h, err := e.try(ctx, fundCode, s)
		if err != nil {
			log.Printf("[WARN] Holdings strategy %s for %s: %v", s.Name, fundCode, err)
			continue
		}
		h.FundName = e.name(ctx, fundCode)
		e.cache.Set(fundCode, h)
		if err := e.Store.Save(h); err != nil {
			log.Printf("[WARN] Failed to persist holdings of %s: %v", fundCode, err)
		}
		log.Printf("[INFO] Holdings of %s from %s: %d items, period %q", fundCode, s.Name, len(h.Items), h.Period)
		return h, nil
	}

	if items := e.Fallback[fundCode]; len(items) > 0 {
		log.Printf("[WARN] Using configured fallback holdings for %s", fundCode)
		return model.Holdings{
			FundCode:  fundCode,
			FundName:  e.name(ctx, fundCode),
			Source:    "override",
			Items:     topByWeight(append([]model.Holding(nil), items...)),
			FetchedAt: e.Now(),
		}, nil
	}

	h, ok, err := e.Store.Load(fundCode)
	if err != nil {
		log.Printf("[WARN] Failed to load stored holdings of %s: %v", fundCode, err)
	}
	if ok && !h.Empty() {
		log.Printf("[WARN] Using stored holdings of %s fetched at %s", fundCode, h.FetchedAt.Format(time.DateTime))
		h.Source = "store"
		if h.FundName == "" {
			h.FundName = e.name(ctx, fundCode)
		}
		return h, nil
	}

	return model.Holdings{}, fmt.Errorf("%w: fund %s", ErrUnavailable, fundCode)
}

// Invalidate drops every cached holdings list.
func (e *Extractor) Invalidate() {
	e.cache.Clear()
}

func (e *Extractor) try(ctx context.Context, fundCode string, s Strategy) (model.Holdings, error) {
	period := s.Period(e.Now())
	var rows []model.RawRow
	err := collector.Retry(ctx, e.Retries, e.RetryDelay, "holdings "+s.Name, func(ctx context.Context) error {
		r, err := s.Source.FetchHoldings(ctx, fundCode, period)
		if err != nil {
			return err
		}
		rows = r
		return nil
	})
	if err != nil {
		return model.Holdings{}, err
	}
	if len(rows) == 0 {
		return model.Holdings{}, errors.New("no rows")
	}

	rec := Reconcile(rows)
	if len(rec.Items) == 0 {
		return model.Holdings{}, fmt.Errorf("no usable rows among %d (schema %s)", len(rows), rec.Schema)
	}
	return model.Holdings{
		FundCode:  fundCode,
		Period:    rec.Period,
		Source:    s.Name,
		Items:     rec.Items,
		FetchedAt: e.Now(),
	}, nil
}

func (e *Extractor) name(ctx context.Context, fundCode string) string {
	if e.Names == nil {
		return fallbackName(fundCode)
	}
	return e.Names.Resolve(ctx, fundCode)
}
