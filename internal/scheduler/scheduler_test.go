package scheduler

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeRunner) RunCycle(_ context.Context, codes []string) *model.ResultSet {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	rs := &model.ResultSet{CycleID: strings.Repeat("x", n)}
	for _, c := range codes {
		rs.Results = append(rs.Results, model.FundValuationResult{
			FundCode: c, FundName: "Fund " + c, Status: model.StatusDomestic, EstimatedChangePercent: 1.5,
			Details: []model.ContributionDetail{{Code: "600519", Name: "贵州茅台", Market: model.MarketA, Weight: 10, ChangePercent: 15, Contribution: 1.5, Found: true}},
		})
	}
	return rs
}

type fakeSender struct {
	sent []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

func TestRefreshPublishesLatest(t *testing.T) {
	r := &fakeRunner{}
	s := NewScheduler(context.Background(), r, []string{"005827", "161725"}, nil)

	if s.Latest() != nil {
		t.Fatal("expected no result set before the first cycle")
	}
	first := s.Refresh(context.Background())
	if s.Latest() != first {
		t.Error("Latest should return the published set")
	}
	second := s.Refresh(context.Background())
	if s.Latest() != second || second.CycleID == first.CycleID {
		t.Error("a new cycle should replace the previous set")
	}
	if len(second.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(second.Results))
	}
}

func TestHandleCommand(t *testing.T) {
	r := &fakeRunner{}
	s := NewScheduler(context.Background(), r, []string{"005827"}, nil)

	if reply := s.HandleCommand("/list"); !strings.Contains(reply, "暂无估值结果") {
		t.Errorf("expected empty notice before first cycle, got %q", reply)
	}
	if reply := s.HandleCommand("/valuate"); !strings.Contains(reply, "Fund 005827") {
		t.Errorf("unexpected /valuate reply %q", reply)
	}
	if r.calls != 1 {
		t.Errorf("expected 1 cycle, got %d", r.calls)
	}
	if reply := s.HandleCommand("/fund 005827"); !strings.Contains(reply, "贵州茅台") {
		t.Errorf("unexpected /fund reply %q", reply)
	}
	if reply := s.HandleCommand("/fund 999999"); !strings.Contains(reply, "未找到") {
		t.Errorf("unexpected /fund reply %q", reply)
	}
	if reply := s.HandleCommand("hello"); !strings.Contains(reply, "可用命令") {
		t.Errorf("expected help, got %q", reply)
	}
}

func TestReportTaskSends(t *testing.T) {
	sender := &fakeSender{}
	s := NewScheduler(context.Background(), &fakeRunner{}, []string{"005827"}, sender)
	s.reportTask()
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "基金实时估值") {
		t.Errorf("unexpected sent messages %v", sender.sent)
	}
}

func TestRegisterAllRejectsBadCron(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeRunner{}, nil, nil)
	if err := s.RegisterAll("bad", "0 5 15 * * 1-5"); err == nil {
		t.Error("expected error for bad cron spec")
	}
	if err := s.RegisterAll("0 */5 9-14 * * 1-5", "0 5 15 * * 1-5"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
