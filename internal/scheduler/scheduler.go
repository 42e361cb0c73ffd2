package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"ImpulseRadar/internal/notifier"
	"ImpulseRadar/internal/recorder"
	"ImpulseRadar/internal/scanner"
)

// Scheduler runs periodic scans and serves chat commands in daemon mode.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  *scanner.Scanner
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Scanner:  sc,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// Register adds the scan job under the given cron spec (seconds field
// included, e.g. "0 0 7,11,15 * * 1-5").
func (s *Scheduler) Register(cronSpec string) error {
	if _, err := s.Cron.AddFunc(cronSpec, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
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

// RunNow executes a scan immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running scheduled scan")
	if _, err := s.Scanner.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] scheduled scan: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply. The scan
// itself pushes its own messages, so /scan replies with nothing.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		s.scanTask()
		return ""
	case "/last":
		return s.lastSignals()
	default:
		return notifier.FormatUsage()
	}
}

func (s *Scheduler) lastSignals() string {
	recs, err := s.Recorder.RecentSignals(8)
	if err != nil {
		return fmt.Sprintf("⚠️ history unavailable: %v", err)
	}
	if len(recs) == 0 {
		return "no recorded signals yet"
	}

	var b strings.Builder
	b.WriteString("🗂 <b>Recent signals</b>\n")
	for _, r := range recs {
		b.WriteString(fmt.Sprintf("  %s: %s %s score %d (%+.2f%%)\n",
			r.Symbol, r.Direction, r.Wave, r.Score, r.MovePct))
	}
	return b.String()
}
