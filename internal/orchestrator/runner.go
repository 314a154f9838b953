package orchestrator

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fortestingfmm-hub/fund-monitor/internal/market"
	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
	"github.com/fortestingfmm-hub/fund-monitor/internal/valuation"
)

// SnapshotSource provides the market snapshot of a cycle.
type SnapshotSource interface {
	Build(ctx context.Context) (*market.Snapshot, error)
}

// Runner performs complete valuation cycles.
type Runner struct {
	Snapshots    SnapshotSource
	Orchestrator *Orchestrator
	Now          func() time.Time
}

func NewRunner(snapshots SnapshotSource, orch *Orchestrator) *Runner {
	return &Runner{Snapshots: snapshots, Orchestrator: orch, Now: time.Now}
}

// RunCycle builds the snapshot once and values every fund against it.
// It always returns one record per code; when the snapshot cannot be built
// every fund is reported with status error.
func (r *Runner) RunCycle(ctx context.Context, codes []string) *model.ResultSet {
	rs := &model.ResultSet{
		CycleID:   uuid.NewString(),
		StartedAt: r.Now(),
	}

	snap, err := r.Snapshots.Build(ctx)
	if err != nil {
		log.Printf("[ERROR] Cycle %s: market snapshot failed: %v", rs.CycleID, err)
		rs.Snapshot = model.SnapshotInfo{Error: err.Error()}
		rs.Results = make([]model.FundValuationResult, len(codes))
		for i, code := range codes {
			rs.Results[i] = valuation.Failed(code, r.Orchestrator.name(ctx, code), market.ErrNetwork.Error())
		}
		rs.FinishedAt = r.Now()
		return rs
	}

	rs.Snapshot = snap.Info()
	rs.Results = r.Orchestrator.ValuateAll(ctx, codes, snap)
	rs.FinishedAt = r.Now()

	counts := map[model.Status]int{}
	for _, res := range rs.Results {
		counts[res.Status]++
	}
	log.Printf("[INFO] Cycle %s: %d funds (%d domestic, %d hk, %d no data, %d error) in %v",
		rs.CycleID, len(codes), counts[model.StatusDomestic], counts[model.StatusHK],
		counts[model.StatusNoData], counts[model.StatusError], rs.FinishedAt.Sub(rs.StartedAt).Round(time.Millisecond))
	return rs
}
