package model

import (
	"fmt"
	"time"
)

// Status summarizes how a fund valuation was obtained.
type Status string

const (
	StatusDomestic Status = "domestic"
	StatusHK       Status = "hk"
	StatusNoData   Status = "no data"
	StatusError    Status = "error"
)

// ContributionDetail is the estimated effect of one holding on the fund NAV.
type ContributionDetail struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Market        Market  `json:"market"`
	Weight        float64 `json:"weight"`
	ChangePercent float64 `json:"change_percent"`
	Contribution  float64 `json:"contribution"`
	Found         bool    `json:"found"`
}

// FundValuationResult is the per-fund output of one valuation cycle.
type FundValuationResult struct {
	FundCode               string               `json:"fund_code"`
	FundName               string               `json:"fund_name"`
	EstimatedChangePercent float64              `json:"estimated_change_percent"`
	HKHoldingCount         int                  `json:"hk_holding_count"`
	Status                 Status               `json:"status"`
	Period                 string               `json:"period,omitempty"`
	Source                 string               `json:"source,omitempty"`
	Message                string               `json:"message,omitempty"`
	Details                []ContributionDetail `json:"details"`
}

// StatusText renders the status the way reports display it.
func (r FundValuationResult) StatusText() string {
	switch r.Status {
	case StatusHK:
		return fmt.Sprintf("%s x%d", MarketHK.Flag(), r.HKHoldingCount)
	case StatusDomestic:
		return MarketA.Flag()
	case StatusError:
		if r.Message != "" {
			return "error: " + r.Message
		}
		return "error"
	default:
		return string(r.Status)
	}
}

// Matched counts details whose price was found in the snapshot.
func (r FundValuationResult) Matched() int {
	n := 0
	for _, d := range r.Details {
		if d.Found {
			n++
		}
	}
	return n
}

// SnapshotInfo describes the market snapshot a result set was computed against.
type SnapshotInfo struct {
	BuiltAt       time.Time `json:"built_at"`
	DomesticCount int       `json:"domestic_count"`
	HKCount       int       `json:"hk_count"`
	HKDegraded    bool      `json:"hk_degraded"`
	Error         string    `json:"error,omitempty"`
}

// ResultSet is the immutable outcome of one valuation cycle.
// Results follow the order of the requested fund codes.
type ResultSet struct {
	CycleID    string                `json:"cycle_id"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Snapshot   SnapshotInfo          `json:"snapshot"`
	Results    []FundValuationResult `json:"results"`
}

// Find returns the result for a fund code.
func (rs *ResultSet) Find(fundCode string) (FundValuationResult, bool) {
	if rs == nil {
		return FundValuationResult{}, false
	}
	for _, r := range rs.Results {
		if r.FundCode == fundCode {
			return r, true
		}
	}
	return FundValuationResult{}, false
}
