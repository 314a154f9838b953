package valuation

import (
	"math"
	"testing"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

func TestNormalize_CandidateForms(t *testing.T) {
	snap := MapLookup{
		"600519": 1.25,
		"00700":  2.5,
		"09988":  -1.1,
	}
	tests := []struct {
		raw   string
		want  float64
		found bool
	}{
		{"600519", 1.25, true},    // as given
		{"00700", 2.5, true},      // 5-char HK code as given
		{"9988", -1.1, true},      // padded with one zero
		{"600519.SH", 1.25, true}, // suffix stripped
		{"00700.HK", 2.5, true},
		{"700", 0, false}, // needs two zeros, not a candidate
		{"510300", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, found := Normalize(tt.raw, snap)
		if found != tt.found || got != tt.want {
			t.Errorf("Normalize(%q) = (%v, %v), want (%v, %v)", tt.raw, got, found, tt.want, tt.found)
		}
	}
}

func TestNormalize_FirstCandidateWins(t *testing.T) {
	snap := MapLookup{"12345": 1.0, "012345": 9.0}
	got, found := Normalize("12345", snap)
	if !found || got != 1.0 {
		t.Errorf("expected the as-given code to win, got %v %v", got, found)
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates("700.HK")
	want := []string{"700.HK", "0700.HK", "700"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Candidates = %v, want %v", got, want)
		}
	}
}

func TestValuate_HongKongHolding(t *testing.T) {
	h := model.Holdings{FundCode: "F1", Items: []model.Holding{{Code: "00700", Name: "腾讯控股", Weight: 10.0}}}
	res := Valuate(h, MapLookup{"00700": 2.5})
	if math.Abs(res.EstimatedChangePercent-0.25) > 1e-9 {
		t.Errorf("expected 0.25, got %v", res.EstimatedChangePercent)
	}
	if res.HKHoldingCount != 1 {
		t.Errorf("expected 1 HK holding, got %d", res.HKHoldingCount)
	}
	if res.Status != model.StatusHK {
		t.Errorf("expected hk status, got %s", res.Status)
	}
	if res.Details[0].Market != model.MarketHK {
		t.Errorf("expected HK market tag, got %q", res.Details[0].Market)
	}
}

func TestValuate_DomesticContribution(t *testing.T) {
	h := model.Holdings{FundCode: "F2", Items: []model.Holding{{Code: "300750", Weight: 8.0}}}
	res := Valuate(h, MapLookup{"300750": -1.0})
	if math.Abs(res.Details[0].Contribution-(-0.08)) > 1e-9 {
		t.Errorf("expected -0.08, got %v", res.Details[0].Contribution)
	}
	if res.Status != model.StatusDomestic || res.HKHoldingCount != 0 {
		t.Errorf("expected domestic status, got %s / %d", res.Status, res.HKHoldingCount)
	}
}

func TestValuate_TotalEqualsSumOfDetails(t *testing.T) {
	h := model.Holdings{FundCode: "F3", Items: []model.Holding{
		{Code: "600519", Weight: 9.81},
		{Code: "00700", Weight: 9.65},
		{Code: "000858", Weight: 9.42},
		{Code: "510300", Weight: 3.3}, // not in snapshot
		{Code: "03690.HK", Weight: 8.88},
	}}
	snap := MapLookup{"600519": 1.25, "00700": 2.5, "000858": -0.83, "03690": 3.05}
	res := Valuate(h, snap)

	sum := 0.0
	for _, d := range res.Details {
		sum += d.Contribution
	}
	if sum != res.EstimatedChangePercent {
		t.Errorf("total %v != sum of details %v", res.EstimatedChangePercent, sum)
	}
	if len(res.Details) != 5 {
		t.Fatalf("unmatched holdings must be kept, got %d details", len(res.Details))
	}
	if res.Details[3].Found || res.Details[3].Contribution != 0 {
		t.Errorf("unmatched detail should contribute 0, got %+v", res.Details[3])
	}
	if res.Matched() != 4 {
		t.Errorf("expected 4 matched, got %d", res.Matched())
	}
	// 03690.HK is priced through its stripped form but is not 5 characters long
	if res.HKHoldingCount != 1 {
		t.Errorf("expected 1 HK holding, got %d", res.HKHoldingCount)
	}
}

func TestValuate_EmptyHoldings(t *testing.T) {
	res := Valuate(model.Holdings{FundCode: "F4"}, MapLookup{"600519": 1})
	if res.EstimatedChangePercent != 0 {
		t.Errorf("expected 0, got %v", res.EstimatedChangePercent)
	}
	if res.Status != model.StatusNoData {
		t.Errorf("expected no data status, got %s", res.Status)
	}
	if res.FundCode != "F4" {
		t.Errorf("fund code lost: %q", res.FundCode)
	}
}
