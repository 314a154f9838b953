package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
	"github.com/fortestingfmm-hub/fund-monitor/internal/notifier"
)

// CycleRunner performs one valuation cycle over the given funds.
type CycleRunner interface {
	RunCycle(ctx context.Context, codes []string) *model.ResultSet
}

// Sender delivers reports to the user.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and holds the latest result set.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   CycleRunner
	Codes    []string
	Notifier Sender // nil disables reports
	Ctx      context.Context

	latest atomic.Pointer[model.ResultSet]
	cycle  sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner CycleRunner, codes []string, sender Sender) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Codes:    codes,
		Notifier: sender,
		Ctx:      ctx,
	}
}

// RegisterAll registers the intraday valuation task and the closing report.
func (s *Scheduler) RegisterAll(valuationCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(valuationCron, s.valuationTask); err != nil {
		return fmt.Errorf("register valuation task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// Refresh runs a valuation cycle now and publishes its result set.
// Cycles never overlap; a caller arriving during a cycle waits for it and runs the next.
func (s *Scheduler) Refresh(ctx context.Context) *model.ResultSet {
	s.cycle.Lock()
	defer s.cycle.Unlock()

	rs := s.Runner.RunCycle(ctx, s.Codes)
	s.latest.Store(rs)
	return rs
}

// Latest returns the most recent result set, or nil before the first cycle.
func (s *Scheduler) Latest() *model.ResultSet {
	return s.latest.Load()
}

func (s *Scheduler) valuationTask() {
	log.Println("[INFO] running valuation task")
	s.Refresh(s.Ctx)
}

func (s *Scheduler) reportTask() {
	log.Println("[INFO] running closing report")
	rs := s.Refresh(s.Ctx)
	s.trySend(notifier.FormatResultSet(rs))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	switch fields[0] {
	case "/valuate", "估值":
		return notifier.FormatResultSet(s.Refresh(s.Ctx))
	case "/list", "最新估值":
		return notifier.FormatResultSet(s.Latest())
	case "/fund", "持仓":
		if len(fields) < 2 {
			return "用法: /fund 基金代码"
		}
		res, ok := s.Latest().Find(fields[1])
		if !ok {
			return fmt.Sprintf("未找到基金 %s 的估值结果", fields[1])
		}
		return notifier.FormatFundDetail(res)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
