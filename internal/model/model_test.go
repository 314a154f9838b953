package model

import "testing"

func TestMarketOf(t *testing.T) {
	tests := []struct {
		code string
		want Market
	}{
		{"00700", MarketHK},
		{"00700.HK", MarketUnknown},
		{"600519", MarketA},
		{"600519.SH", MarketUnknown},
		{"700", MarketUnknown},
		{"", MarketUnknown},
	}
	for _, tt := range tests {
		if got := MarketOf(tt.code); got != tt.want {
			t.Errorf("MarketOf(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		res  FundValuationResult
		want string
	}{
		{FundValuationResult{Status: StatusHK, HKHoldingCount: 3}, "🇭🇰 x3"},
		{FundValuationResult{Status: StatusDomestic}, "🇨🇳"},
		{FundValuationResult{Status: StatusNoData}, "no data"},
		{FundValuationResult{Status: StatusError, Message: "network error"}, "error: network error"},
	}
	for _, tt := range tests {
		if got := tt.res.StatusText(); got != tt.want {
			t.Errorf("StatusText(%s) = %q, want %q", tt.res.Status, got, tt.want)
		}
	}
}

func TestResultSetFind(t *testing.T) {
	var nilSet *ResultSet
	if _, ok := nilSet.Find("005827"); ok {
		t.Error("nil set should find nothing")
	}
	rs := &ResultSet{Results: []FundValuationResult{{FundCode: "005827"}, {FundCode: "161725"}}}
	if r, ok := rs.Find("161725"); !ok || r.FundCode != "161725" {
		t.Errorf("Find returned %+v %v", r, ok)
	}
}
