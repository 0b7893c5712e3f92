package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"StockScout/internal/recorder"
	"StockScout/internal/report"
	"StockScout/internal/screener"
)

// Scheduler runs the configured screening rules on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Screener *screener.Screener
	Recorder recorder.Recorder
	Rules    []string
	Opts     screener.Options
	Ctx      context.Context
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, s *screener.Screener, rec recorder.Recorder, rules []string, opts screener.Options) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Screener: s,
		Recorder: rec,
		Rules:    rules,
		Opts:     opts,
		Ctx:      ctx,
	}
}

// Register registers the daily screening task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the daily screening immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	if len(s.Rules) == 0 {
		log.Println("[INFO] daily screening: no rules configured")
		return
	}
	log.Printf("[INFO] running daily screening, %d rule(s)", len(s.Rules))
	for _, ruleText := range s.Rules {
		s.screenOne(ruleText)
		if s.Ctx.Err() != nil {
			log.Println("[INFO] daily screening cancelled")
			return
		}
	}
}

func (s *Scheduler) screenOne(ruleText string) {
	res, err := s.Screener.ScreenRule(s.Ctx, ruleText, s.Opts)
	if err != nil {
		// A bad rule or a cancelled run; either way the other rules
		// still get their turn.
		log.Printf("[ERROR] screening %q: %v", ruleText, err)
		if res == nil {
			return
		}
	}

	log.Printf("[INFO] rule %q: %d/%d matched, %d skipped",
		ruleText, len(res.Matches), res.Universe, len(res.Skipped))
	fmt.Println(report.FormatScreeningReport(res))

	if err := s.Recorder.RecordRun(res); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}
