// Package collector holds the transport adapters that feed the valuation
// pipeline: quote tables, holdings disclosures and fund names.
package collector

import (
	"context"
	"fmt"
	"sync"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// MockFeed returns controllable fixed quote rows for development and testing.
type MockFeed struct {
	Domestic    []model.RawRow
	HongKong    []model.RawRow
	DomesticErr error
	HongKongErr error

	mu    sync.Mutex
	calls int
}

// NewMockFeed returns a feed with a handful of well-known A-share and HK quotes.
func NewMockFeed() *MockFeed {
	return &MockFeed{
		Domestic: []model.RawRow{
			{"代码": "600519", "名称": "贵州茅台", "涨跌幅": 1.25},
			{"代码": "000858", "名称": "五粮液", "涨跌幅": -0.83},
			{"代码": "300750", "名称": "宁德时代", "涨跌幅": 2.10},
			{"代码": "000568", "名称": "泸州老窖", "涨跌幅": 0.56},
			{"代码": "600809", "名称": "山西汾酒", "涨跌幅": -1.42},
			{"代码": "002304", "名称": "洋河股份", "涨跌幅": "-"},
		},
		HongKong: []model.RawRow{
			{"代码": "00700", "名称": "腾讯控股", "涨跌幅": 2.5},
			{"代码": "09988", "名称": "阿里巴巴-W", "涨跌幅": -1.1},
			{"代码": "03690", "名称": "美团-W", "涨跌幅": 3.05},
		},
	}
}

func (m *MockFeed) Name() string { return "mock" }

func (m *MockFeed) FetchDomestic(_ context.Context) ([]model.RawRow, error) {
	m.count()
	if m.DomesticErr != nil {
		return nil, m.DomesticErr
	}
	return m.Domestic, nil
}

func (m *MockFeed) FetchHongKong(_ context.Context) ([]model.RawRow, error) {
	m.count()
	if m.HongKongErr != nil {
		return nil, m.HongKongErr
	}
	return m.HongKong, nil
}

// Calls reports how many fetches were made.
func (m *MockFeed) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFeed) count() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

// MockHoldings serves holdings rows keyed by fund code, ignoring the period.
type MockHoldings struct {
	Label string
	Rows  map[string][]model.RawRow
	Err   map[string]error
}

// NewMockHoldings returns a source preloaded with the 005827 disclosure in
// the Eastmoney quarter-label layout.
func NewMockHoldings() *MockHoldings {
	return &MockHoldings{
		Label: "mock",
		Rows: map[string][]model.RawRow{
			"005827": {
				{"序号": 1, "股票代码": "600519", "股票名称": "贵州茅台", "占净值比例": 9.81, "季度": "2025年1季度股票投资明细"},
				{"序号": 2, "股票代码": "00700", "股票名称": "腾讯控股", "占净值比例": 9.65, "季度": "2025年1季度股票投资明细"},
				{"序号": 3, "股票代码": "000858", "股票名称": "五粮液", "占净值比例": 9.42, "季度": "2025年1季度股票投资明细"},
				{"序号": 4, "股票代码": "03690", "股票名称": "美团-W", "占净值比例": 8.88, "季度": "2025年1季度股票投资明细"},
				{"序号": 5, "股票代码": "000568", "股票名称": "泸州老窖", "占净值比例": 8.76, "季度": "2025年1季度股票投资明细"},
				{"序号": 6, "股票代码": "09988", "股票名称": "阿里巴巴-W", "占净值比例": 7.31, "季度": "2025年1季度股票投资明细"},
				{"序号": 1, "股票代码": "600519", "股票名称": "贵州茅台", "占净值比例": 9.90, "季度": "2024年4季度股票投资明细"},
				{"序号": 2, "股票代码": "600809", "股票名称": "山西汾酒", "占净值比例": 9.12, "季度": "2024年4季度股票投资明细"},
			},
		},
	}
}

func (m *MockHoldings) Name() string { return m.Label }

func (m *MockHoldings) FetchHoldings(_ context.Context, fundCode, _ string) ([]model.RawRow, error) {
	if err := m.Err[fundCode]; err != nil {
		return nil, err
	}
	return m.Rows[fundCode], nil
}

// MockNames resolves names from a fixed table.
type MockNames map[string]string

func (m MockNames) FetchFundName(_ context.Context, fundCode string) (string, error) {
	if name, ok := m[fundCode]; ok {
		return name, nil
	}
	return "", fmt.Errorf("fund %s not found", fundCode)
}
