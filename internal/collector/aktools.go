package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fortestingfmm-hub/fund-monitor/internal/cache"
	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// AKTools public API names.
const (
	apiStockSpotA       = "stock_zh_a_spot_em"
	apiStockSpotHK      = "stock_hk_spot_em"
	apiFundHoldEM       = "fund_portfolio_hold_em"
	apiFundHoldCNInfo   = "fund_portfolio_hold_cninfo"
	apiFundNameTable    = "fund_name_em"
	fundNameTableKey    = "fund_name_em"
	fundNameTableMaxAge = 24 * time.Hour
)

// AKToolsClient talks to an AKTools HTTP gateway, which exposes AKShare
// functions as GET /api/public/<function> returning a JSON array of records.
type AKToolsClient struct {
	BaseURL string
	Client  *http.Client

	names *cache.Cache[map[string]string]
}

// NewAKToolsClient creates a client for the gateway at baseURL.
func NewAKToolsClient(baseURL, proxyURL string, timeout time.Duration) *AKToolsClient {
	return &AKToolsClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL, timeout),
		names:   cache.New[map[string]string](fundNameTableMaxAge),
	}
}

func (a *AKToolsClient) Name() string { return "aktools" }

// FetchDomestic returns the A-share spot table (代码, 名称, 涨跌幅, ...).
func (a *AKToolsClient) FetchDomestic(ctx context.Context) ([]model.RawRow, error) {
	rows, err := a.fetchTable(ctx, apiStockSpotA, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch domestic quotes: %w", err)
	}
	return rows, nil
}

// FetchHongKong returns the Hong Kong spot table; codes are 5 digits.
func (a *AKToolsClient) FetchHongKong(ctx context.Context) ([]model.RawRow, error) {
	rows, err := a.fetchTable(ctx, apiStockSpotHK, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch hong kong quotes: %w", err)
	}
	return rows, nil
}

// FetchFundName looks the code up in the full fund name table, loaded at most once a day.
func (a *AKToolsClient) FetchFundName(ctx context.Context, fundCode string) (string, error) {
	table, err := a.names.GetOrLoad(ctx, fundNameTableKey, func(ctx context.Context) (map[string]string, error) {
		rows, err := a.fetchTable(ctx, apiFundNameTable, nil)
		if err != nil {
			return nil, err
		}
		m := make(map[string]string, len(rows))
		for _, r := range rows {
			code := ToString(r["基金代码"])
			if code == "" {
				continue
			}
			m[code] = ToString(r["基金简称"])
		}
		return m, nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch fund names: %w", err)
	}
	name, ok := table[fundCode]
	if !ok || name == "" {
		return "", fmt.Errorf("fund %s not found in name table", fundCode)
	}
	return name, nil
}

func (a *AKToolsClient) fetchTable(ctx context.Context, api string, params url.Values) ([]model.RawRow, error) {
	endpoint := fmt.Sprintf("%s/api/public/%s", a.BaseURL, api)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	var rows []model.RawRow
	if err := getJSON(ctx, a.Client, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("%s: %w", api, err)
	}
	return rows, nil
}

// AKToolsHoldings is a holdings source backed by one AKShare disclosure function.
type AKToolsHoldings struct {
	client *AKToolsClient
	api    string
	name   string
}

// NewEastmoneyHoldings uses fund_portfolio_hold_em; period is a calendar year ("2024").
func NewEastmoneyHoldings(c *AKToolsClient) *AKToolsHoldings {
	return &AKToolsHoldings{client: c, api: apiFundHoldEM, name: "em"}
}

// NewCNInfoHoldings uses fund_portfolio_hold_cninfo; period is a report date ("20240630").
func NewCNInfoHoldings(c *AKToolsClient) *AKToolsHoldings {
	return &AKToolsHoldings{client: c, api: apiFundHoldCNInfo, name: "cninfo"}
}

func (h *AKToolsHoldings) Name() string { return h.name }

func (h *AKToolsHoldings) FetchHoldings(ctx context.Context, fundCode, period string) ([]model.RawRow, error) {
	params := url.Values{}
	params.Set("symbol", fundCode)
	if period != "" {
		params.Set("date", period)
	}
	return h.client.fetchTable(ctx, h.api, params)
}
