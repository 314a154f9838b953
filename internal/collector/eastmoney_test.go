package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestEastmoneyQuoteFeed_Paging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("pn"))
		switch page {
		case 1:
			fmt.Fprint(w, `{"rc":0,"data":{"total":3,"diff":[{"f12":"00700","f14":"腾讯控股","f3":2.5},{"f12":"09988","f14":"阿里巴巴-W","f3":-1.1}]}}`)
		case 2:
			fmt.Fprint(w, `{"rc":0,"data":{"total":3,"diff":[{"f12":"03690","f14":"美团-W","f3":"-"}]}}`)
		default:
			t.Errorf("unexpected page %d", page)
			fmt.Fprint(w, `{"rc":0,"data":null}`)
		}
	}))
	defer srv.Close()

	feed := NewEastmoneyQuoteFeed("", 5*time.Second)
	feed.BaseURL = srv.URL
	// two rows per page from the fake server, the client keeps asking until total is reached
	rows, err := feed.FetchHongKong(context.Background())
	if err != nil {
		t.Fatalf("FetchHongKong: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if got := ToString(rows[2]["f12"]); got != "03690" {
		t.Errorf("expected 03690, got %s", got)
	}
}

func TestEastmoneyQuoteFeed_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rc":102,"data":null}`)
	}))
	defer srv.Close()

	feed := NewEastmoneyQuoteFeed("", 5*time.Second)
	feed.BaseURL = srv.URL
	if _, err := feed.FetchDomestic(context.Background()); err == nil {
		t.Fatal("expected error when data is null")
	}
}

func TestFundGZNameSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/005827.js" {
			fmt.Fprint(w, `jsonpgz();`)
			return
		}
		fmt.Fprint(w, `jsonpgz({"fundcode":"005827","name":"易方达蓝筹精选混合","jzrq":"2025-04-30","dwjz":"1.8836","gsz":"1.8901","gszzl":"0.35","gztime":"2025-05-06 15:00"});`)
	}))
	defer srv.Close()

	src := NewFundGZNameSource("", 5*time.Second)
	src.BaseURL = srv.URL
	name, err := src.FetchFundName(context.Background(), "005827")
	if err != nil {
		t.Fatalf("FetchFundName: %v", err)
	}
	if name != "易方达蓝筹精选混合" {
		t.Errorf("unexpected name %q", name)
	}
	if _, err := src.FetchFundName(context.Background(), "000000"); err == nil {
		t.Error("expected error for empty jsonp payload")
	}
}

func TestUnwrapJSONP(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`cb({"a":1});`, `{"a":1}`, false},
		{`cb( {"a":"(x)"} )`, `{"a":"(x)"}`, false},
		{`no callback`, "", true},
		{`cb()`, "", true},
	}
	for _, tt := range tests {
		got, err := unwrapJSONP(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("unwrapJSONP(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("unwrapJSONP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
