package scanner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"ImpulseRadar/internal/collector"
	"ImpulseRadar/internal/config"
	"ImpulseRadar/internal/model"
	"ImpulseRadar/internal/notifier"
	"ImpulseRadar/internal/recorder"
	"ImpulseRadar/internal/strategy"
)

// Scanner runs the fetch, classify, notify pipeline over the configured
// symbol list. Each run is independent; nothing carries over between runs.
type Scanner struct {
	cfg       *config.Config
	fetcher   collector.Fetcher
	notifiers []notifier.Notifier
	rec       recorder.Recorder
}

// New wires a scanner from its parts.
func New(cfg *config.Config, fetcher collector.Fetcher, notifiers []notifier.Notifier, rec recorder.Recorder) *Scanner {
	return &Scanner{cfg: cfg, fetcher: fetcher, notifiers: notifiers, rec: rec}
}

// retrySender is implemented by notifiers that can back off and retry, the
// run summary uses it when available.
type retrySender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Run executes one full scan cycle: probe every symbol, classify what came
// back, push per-symbol messages and a closing summary to every channel,
// and record the outcome. A symbol without data or a failed send never
// aborts the cycle. The returned error is non-nil only when the run produced
// nothing usable: every symbol failed, or the summary could not be delivered
// on any channel.
func (s *Scanner) Run(ctx context.Context) (*model.RunSummary, error) {
	started := time.Now().UTC()
	summary := &model.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: started,
		Session:   strategy.SessionLabel(started),
	}

	log.Printf("[INFO] scan %s started: %d symbols via %s, %s session",
		summary.RunID, len(s.cfg.Symbols), s.fetcher.Name(), summary.Session)

	for _, sym := range s.cfg.Symbols {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		report := s.scanSymbol(sym, summary.Session)
		summary.Reports = append(summary.Reports, report)

		delivered := s.deliver(report, started, summary)
		s.recordSignal(summary.RunID, report, delivered)
	}

	summaryDelivered := s.deliverSummary(ctx, summary)
	s.recordRun(summary)

	if summary.FailedSymbols() == len(summary.Reports) {
		return summary, fmt.Errorf("no symbol produced data")
	}
	if !summaryDelivered {
		return summary, fmt.Errorf("run summary undeliverable on every channel")
	}

	log.Printf("[INFO] scan %s finished: %d/%d symbols classified, %d messages delivered, %d failed",
		summary.RunID, len(summary.Reports)-summary.FailedSymbols(), len(summary.Reports),
		summary.Delivered, summary.Failures)
	return summary, nil
}

// scanSymbol probes the symbol's tickers and classifies the first series
// that comes back. A probe miss yields a failed report, not an error.
func (s *Scanner) scanSymbol(sym model.SymbolConfig, session model.Session) *model.SymbolReport {
	report := &model.SymbolReport{Symbol: sym.Name, Session: session}

	probe := collector.Probe(s.fetcher, sym.Tickers, sym.Interval, sym.Lookback, s.cfg.Scan.MaxAttempts)
	if !probe.OK() {
		report.FailReason = probe.Reason
		log.Printf("[WARN] %s: no data (%s)", sym.Name, probe.Reason)
		return report
	}

	report.Ticker = probe.Ticker
	report.LastClose = probe.Bars[len(probe.Bars)-1].Close
	report.Signal = strategy.Classify(probe.Bars, strategy.Options{
		MinBars:      s.cfg.Scan.MinBars,
		Window:       s.cfg.Scan.Window,
		ThresholdPct: s.cfg.Scan.ThresholdPct,
	})

	report.HTFBias = model.DirectionNeutral
	report.Final = report.Signal.Direction
	if s.cfg.Scan.TrendFilter.Enabled {
		report.HTFBias = s.htfBias(probe.Ticker)
		report.Final = strategy.CombineBias(report.Signal.Direction, report.HTFBias)
	}

	log.Printf("[INFO] %s (%s): %s %s score %d (%+.2f%%)",
		sym.Name, report.Ticker, report.Final, report.Signal.Wave,
		report.Signal.Score, report.Signal.MovePct)
	return report
}

// htfBias fetches the larger-interval series for the trend filter. Any
// failure degrades to Neutral so the filter can only refine, never block.
func (s *Scanner) htfBias(ticker string) model.Direction {
	tf := s.cfg.Scan.TrendFilter
	bars, err := s.fetcher.FetchBars(ticker, tf.Interval, tf.Lookback)
	if err != nil {
		log.Printf("[WARN] trend filter fetch %s: %v", ticker, err)
		return model.DirectionNeutral
	}
	return strategy.HigherTimeframeBias(model.DropUnusable(bars), tf.SMAPeriod)
}

// deliver pushes one report to every channel and reports whether at least
// one send succeeded.
func (s *Scanner) deliver(report *model.SymbolReport, at time.Time, summary *model.RunSummary) bool {
	text := notifier.FormatReport(report, at)
	delivered := false
	for _, n := range s.notifiers {
		if err := n.Send(text); err != nil {
			log.Printf("[ERROR] %s: send %s report: %v", n.Name(), report.Symbol, err)
			summary.Failures++
			continue
		}
		delivered = true
		summary.Delivered++
	}
	return delivered
}

// deliverSummary sends the closing digest, with retries where the channel
// supports them.
func (s *Scanner) deliverSummary(ctx context.Context, summary *model.RunSummary) bool {
	text := notifier.FormatRunSummary(summary)
	delivered := false
	for _, n := range s.notifiers {
		var err error
		if rs, ok := n.(retrySender); ok {
			err = rs.SendWithRetry(ctx, text, 1)
		} else {
			err = n.Send(text)
		}
		if err != nil {
			log.Printf("[ERROR] %s: send run summary: %v", n.Name(), err)
			summary.Failures++
			continue
		}
		delivered = true
		summary.Delivered++
	}
	return delivered
}

func (s *Scanner) recordSignal(runID string, report *model.SymbolReport, delivered bool) {
	if report.Failed() {
		return
	}
	rec := &recorder.SignalRecord{
		RunID:     runID,
		Symbol:    report.Symbol,
		Ticker:    report.Ticker,
		Session:   string(report.Session),
		Direction: string(report.Final),
		Wave:      string(report.Signal.Wave),
		Score:     report.Signal.Score,
		MovePct:   report.Signal.MovePct,
		LastClose: report.LastClose,
		Reason:    report.Signal.Reason,
		Delivered: delivered,
	}
	if err := s.rec.RecordSignal(rec); err != nil {
		log.Printf("[WARN] record signal %s: %v", report.Symbol, err)
	}
}

func (s *Scanner) recordRun(summary *model.RunSummary) {
	var failed []string
	for _, r := range summary.Reports {
		if r.Failed() {
			failed = append(failed, r.Symbol)
		}
	}
	rec := &recorder.RunRecord{
		RunID:         summary.RunID,
		Session:       string(summary.Session),
		SymbolsTotal:  len(summary.Reports),
		SymbolsOK:     len(summary.Reports) - len(failed),
		SymbolsFailed: len(failed),
		Notes:         strings.Join(failed, ", "),
	}
	if err := s.rec.RecordRun(rec); err != nil {
		log.Printf("[WARN] record run: %v", err)
	}
}
