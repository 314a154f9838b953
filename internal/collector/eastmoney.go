package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

const (
	eastmoneyClistURL = "https://82.push2.eastmoney.com/api/qt/clist/get"
	fundGZURL         = "https://fundgz.1234567.com.cn/js"

	// board filters of the push2 clist endpoint
	domesticBoards = "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23,m:0+t:81+s:2048"
	hongKongBoards = "m:128+t:3,m:128+t:4,m:128+t:1,m:128+t:2"

	clistPageSize = 100
	clistMaxPages = 100
)

// EastmoneyQuoteFeed reads the push2 "clist" endpoint directly.
// Rows keep the provider's field ids: f12 is the code, f14 the name, f3 the change percent.
type EastmoneyQuoteFeed struct {
	BaseURL string
	Client  *http.Client
}

// NewEastmoneyQuoteFeed creates a feed with optional proxy support.
func NewEastmoneyQuoteFeed(proxyURL string, timeout time.Duration) *EastmoneyQuoteFeed {
	return &EastmoneyQuoteFeed{
		BaseURL: eastmoneyClistURL,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *EastmoneyQuoteFeed) Name() string { return "eastmoney" }

func (f *EastmoneyQuoteFeed) FetchDomestic(ctx context.Context) ([]model.RawRow, error) {
	rows, err := f.fetchBoards(ctx, domesticBoards)
	if err != nil {
		return nil, fmt.Errorf("fetch domestic quotes: %w", err)
	}
	return rows, nil
}

func (f *EastmoneyQuoteFeed) FetchHongKong(ctx context.Context) ([]model.RawRow, error) {
	rows, err := f.fetchBoards(ctx, hongKongBoards)
	if err != nil {
		return nil, fmt.Errorf("fetch hong kong quotes: %w", err)
	}
	return rows, nil
}

// fetchBoards pages through the clist endpoint until total rows are read.
func (f *EastmoneyQuoteFeed) fetchBoards(ctx context.Context, boards string) ([]model.RawRow, error) {
	var rows []model.RawRow
	for page := 1; page <= clistMaxPages; page++ {
		params := url.Values{}
		params.Set("pn", strconv.Itoa(page))
		params.Set("pz", strconv.Itoa(clistPageSize))
		params.Set("po", "1")
		params.Set("np", "1")
		params.Set("fltt", "2")
		params.Set("invt", "2")
		params.Set("fid", "f3")
		params.Set("fs", boards)
		params.Set("fields", "f12,f14,f3")

		var doc any
		if err := getJSON(ctx, f.Client, f.BaseURL+"?"+params.Encode(), &doc); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		total, pageRows, err := parseClistPage(doc)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		rows = append(rows, pageRows...)
		if len(pageRows) == 0 || len(rows) >= total {
			break
		}
	}
	return rows, nil
}

// parseClistPage extracts $.data.total and $.data.diff[*] from one decoded page.
func parseClistPage(doc any) (int, []model.RawRow, error) {
	if v, err := jsonpath.Get("$.data", doc); err != nil || v == nil {
		return 0, nil, fmt.Errorf("clist: no data in response")
	}
	totalVal, err := jsonpath.Get("$.data.total", doc)
	if err != nil {
		return 0, nil, fmt.Errorf("clist total: %w", err)
	}
	total, _ := ToFloat(totalVal)

	diffVal, err := jsonpath.Get("$.data.diff[*]", doc)
	if err != nil {
		return 0, nil, fmt.Errorf("clist diff: %w", err)
	}
	items, _ := diffVal.([]any)
	rows := make([]model.RawRow, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			rows = append(rows, model.RawRow(m))
		}
	}
	return int(total), rows, nil
}

// FundGZNameSource reads a fund's name from the fundgz realtime estimate feed,
// which answers with JSONP: jsonpgz({"fundcode":"005827","name":"...",...});
type FundGZNameSource struct {
	BaseURL string
	Client  *http.Client
}

// NewFundGZNameSource creates a name source with optional proxy support.
func NewFundGZNameSource(proxyURL string, timeout time.Duration) *FundGZNameSource {
	return &FundGZNameSource{
		BaseURL: fundGZURL,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (s *FundGZNameSource) FetchFundName(ctx context.Context, fundCode string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s.js?rt=%d", s.BaseURL, url.PathEscape(fundCode), time.Now().UnixMilli())
	body, err := getBody(ctx, s.Client, endpoint)
	if err != nil {
		return "", fmt.Errorf("fetch fund name: %w", err)
	}
	payload, err := unwrapJSONP(string(body))
	if err != nil {
		return "", fmt.Errorf("fund %s: %w", fundCode, err)
	}
	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return "", fmt.Errorf("decode fund name: %w", err)
	}
	v, err := jsonpath.Get("$.name", doc)
	if err != nil {
		return "", fmt.Errorf("fund %s: %w", fundCode, err)
	}
	name := ToString(v)
	if name == "" {
		return "", fmt.Errorf("fund %s: empty name", fundCode)
	}
	return name, nil
}

// unwrapJSONP returns the argument of a JSONP callback.
func unwrapJSONP(body string) (string, error) {
	start := strings.IndexByte(body, '(')
	end := strings.LastIndexByte(body, ')')
	if start < 0 || end <= start {
		return "", fmt.Errorf("malformed jsonp response")
	}
	payload := strings.TrimSpace(body[start+1 : end])
	if payload == "" {
		return "", fmt.Errorf("empty jsonp payload")
	}
	return payload, nil
}
