// Package orchestrator runs the holdings and valuation pipeline over a list
// of funds and assembles the result set of one cycle.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
	"github.com/fortestingfmm-hub/fund-monitor/internal/valuation"
)

// Mode selects how funds are scheduled.
type Mode string

const (
	ModeConcurrent Mode = "concurrent"
	ModeSequential Mode = "sequential"
)

// HoldingsFetcher resolves the canonical holdings of a fund.
type HoldingsFetcher interface {
	Fetch(ctx context.Context, fundCode string) (model.Holdings, error)
}

// NameLookup resolves a display name; it must not fail.
type NameLookup interface {
	Resolve(ctx context.Context, fundCode string) string
}

// Orchestrator values many funds against one shared snapshot.
type Orchestrator struct {
	Holdings        HoldingsFetcher
	Names           NameLookup
	Mode            Mode
	Workers         int
	SequentialDelay time.Duration
	FundTimeout     time.Duration
}

// New creates an orchestrator in concurrent mode with 4 workers.
func New(holdings HoldingsFetcher, names NameLookup) *Orchestrator {
	return &Orchestrator{
		Holdings:        holdings,
		Names:           names,
		Mode:            ModeConcurrent,
		Workers:         4,
		SequentialDelay: 1500 * time.Millisecond,
		FundTimeout:     20 * time.Second,
	}
}

// ValuateAll returns one result per code, in the order of codes. A failing
// or slow fund yields a "no data" or "error" record and never affects the others.
func (o *Orchestrator) ValuateAll(ctx context.Context, codes []string, snap valuation.PriceLookup) []model.FundValuationResult {
	results := make([]model.FundValuationResult, len(codes))
	if o.Mode == ModeSequential {
		o.runSequential(ctx, codes, snap, results)
		return results
	}

	workers := o.Workers
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, code := range codes {
		g.Go(func() error {
			results[i] = o.valuateOne(ctx, code, snap)
			return nil
		})
	}
	g.Wait()
	return results
}

func (o *Orchestrator) runSequential(ctx context.Context, codes []string, snap valuation.PriceLookup, results []model.FundValuationResult) {
	for i, code := range codes {
		if i > 0 && o.SequentialDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(o.SequentialDelay):
			}
		}
		if ctx.Err() != nil {
			results[i] = valuation.NoData(code, o.name(ctx, code), "cancelled")
			continue
		}
		results[i] = o.valuateOne(ctx, code, snap)
	}
}

// valuateOne runs a single fund under its own deadline and turns panics into error records.
func (o *Orchestrator) valuateOne(ctx context.Context, code string, snap valuation.PriceLookup) model.FundValuationResult {
	if o.FundTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.FundTimeout)
		defer cancel()
	}

	done := make(chan model.FundValuationResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ERROR] Valuation of %s panicked: %v", code, r)
				done <- valuation.Failed(code, o.name(ctx, code), fmt.Sprint(r))
			}
		}()
		done <- o.pipeline(ctx, code, snap)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		reason := abandonReason(ctx)
		log.Printf("[WARN] Valuation of %s abandoned: %s", code, reason)
		return valuation.NoData(code, o.name(ctx, code), reason)
	}
}

func abandonReason(ctx context.Context) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timeout"
	}
	return "cancelled"
}

func (o *Orchestrator) pipeline(ctx context.Context, code string, snap valuation.PriceLookup) model.FundValuationResult {
	h, err := o.Holdings.Fetch(ctx, code)
	if err != nil {
		reason := err.Error()
		if ctx.Err() != nil {
			reason = abandonReason(ctx)
		}
		log.Printf("[WARN] No holdings for %s: %v", code, err)
		return valuation.NoData(code, o.name(ctx, code), reason)
	}
	if h.FundCode == "" {
		h.FundCode = code
	}
	if h.FundName == "" {
		h.FundName = o.name(ctx, code)
	}
	return valuation.Valuate(h, snap)
}

func (o *Orchestrator) name(ctx context.Context, code string) string {
	if o.Names == nil {
		return "Fund " + code
	}
	return o.Names.Resolve(ctx, code)
}
