package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "holdings.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	s := openTestStore(t)

	h := model.Holdings{
		FundCode:  "005827",
		FundName:  "易方达蓝筹精选混合",
		Period:    "2025年1季度股票投资明细",
		Source:    "em",
		FetchedAt: time.Unix(1746500000, 0),
		Items: []model.Holding{
			{Code: "600519", Name: "贵州茅台", Weight: 9.81},
			{Code: "00700", Name: "腾讯控股", Weight: 9.65},
		},
	}
	if err := s.Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := s.Load("005827")
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.FundName != h.FundName || got.Period != h.Period || got.Source != "em" {
		t.Errorf("unexpected header %+v", got)
	}
	if len(got.Items) != 2 || got.Items[1].Code != "00700" || got.Items[1].Weight != 9.65 {
		t.Errorf("unexpected items %+v", got.Items)
	}
	if !got.FetchedAt.Equal(h.FetchedAt) {
		t.Errorf("fetched_at = %v, want %v", got.FetchedAt, h.FetchedAt)
	}
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	s := openTestStore(t)

	first := model.Holdings{FundCode: "161725", Items: []model.Holding{{Code: "600519", Weight: 15}}}
	second := model.Holdings{FundCode: "161725", Source: "cninfo", Items: []model.Holding{{Code: "000858", Weight: 14}, {Code: "000568", Weight: 13}}}
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Load("161725")
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.Source != "cninfo" || len(got.Items) != 2 || got.Items[0].Code != "000858" {
		t.Errorf("expected second snapshot, got %+v", got)
	}
}

func TestSQLiteStore_MissingAndClear(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Load("000000"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Save(model.Holdings{FundCode: "110011", Items: []model.Holding{{Code: "600519", Weight: 9}}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := s.Load("110011"); ok {
		t.Error("expected store to be empty after Clear")
	}
}
