package scanner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ImpulseRadar/internal/config"
	"ImpulseRadar/internal/model"
	"ImpulseRadar/internal/notifier"
	"ImpulseRadar/internal/recorder"
)

func notifiers(ns ...notifier.Notifier) []notifier.Notifier { return ns }

// testFetcher serves canned series keyed by "ticker/interval" so the trend
// filter fetch can return a different shape than the scan fetch.
type testFetcher struct {
	bars map[string][]model.Candle
	errs map[string]error
}

func (f *testFetcher) Name() string { return "test" }

func (f *testFetcher) FetchBars(ticker, interval, lookback string) ([]model.Candle, error) {
	if err, ok := f.errs[ticker]; ok {
		return nil, err
	}
	return f.bars[ticker+"/"+interval], nil
}

type captureNotifier struct {
	name string
	fail bool
	sent []string
}

func (n *captureNotifier) Name() string {
	if n.name == "" {
		return "capture"
	}
	return n.name
}

func (n *captureNotifier) Send(text string) error {
	if n.fail {
		return errors.New("send failed")
	}
	n.sent = append(n.sent, text)
	return nil
}

type captureRecorder struct {
	signals []recorder.SignalRecord
	runs    []recorder.RunRecord
}

func (r *captureRecorder) RecordSignal(rec *recorder.SignalRecord) error {
	r.signals = append(r.signals, *rec)
	return nil
}

func (r *captureRecorder) RecordRun(rec *recorder.RunRecord) error {
	r.runs = append(r.runs, *rec)
	return nil
}

func (r *captureRecorder) RecentSignals(_ int) ([]recorder.SignalRecord, error) { return nil, nil }
func (r *captureRecorder) Close() error                                         { return nil }

func candles(closes ...float64) []model.Candle {
	bars := make([]model.Candle, len(closes))
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	prev := closes[0]
	for i, c := range closes {
		bars[i] = model.Candle{
			Time:   start.Add(time.Duration(i) * 15 * time.Minute),
			Open:   prev,
			High:   max(prev, c) + 0.05,
			Low:    min(prev, c) - 0.05,
			Close:  c,
			Volume: 1000,
		}
		prev = c
	}
	return bars
}

func testConfig(symbols ...model.SymbolConfig) *config.Config {
	cfg := &config.Config{}
	cfg.Symbols = symbols
	cfg.Scan.MinBars = 3
	cfg.Scan.Window = 3
	cfg.Scan.ThresholdPct = 0.5
	cfg.Scan.MaxAttempts = 1
	return cfg
}

func TestRun_ClassifiesAndDeliversAllSymbols(t *testing.T) {
	fetcher := &testFetcher{bars: map[string][]model.Candle{
		"^NDX/15m":     candles(100, 100.5, 101.2),
		"EURUSD=X/15m": candles(1.08, 1.081, 1.0805),
	}}
	note := &captureNotifier{}
	rec := &captureRecorder{}

	cfg := testConfig(
		model.SymbolConfig{Name: "NASDAQ", Tickers: []string{"^NDX"}, Interval: "15m", Lookback: "5d"},
		model.SymbolConfig{Name: "EURUSD", Tickers: []string{"EURUSD=X"}, Interval: "15m", Lookback: "5d"},
	)

	summary, err := New(cfg, fetcher, notifiers(note), rec).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(summary.Reports))
	}
	if summary.Reports[0].Failed() || summary.Reports[1].Failed() {
		t.Fatal("expected both symbols classified")
	}
	if got := summary.Reports[0].Final; got != model.DirectionBuy {
		t.Errorf("expected NASDAQ Buy, got %s", got)
	}
	if got := summary.Reports[1].Final; got != model.DirectionNeutral {
		t.Errorf("expected EURUSD Neutral, got %s", got)
	}

	// Two symbol messages plus the run summary.
	if len(note.sent) != 3 {
		t.Fatalf("expected 3 messages, got %d: %v", len(note.sent), note.sent)
	}
	if !strings.Contains(note.sent[2], "Impulse scan") {
		t.Errorf("expected last message to be the summary:\n%s", note.sent[2])
	}

	if len(rec.signals) != 2 || len(rec.runs) != 1 {
		t.Fatalf("expected 2 signals and 1 run recorded, got %d/%d", len(rec.signals), len(rec.runs))
	}
	if rec.runs[0].SymbolsOK != 2 || rec.runs[0].SymbolsFailed != 0 {
		t.Errorf("unexpected run record: %+v", rec.runs[0])
	}
	if !rec.signals[0].Delivered {
		t.Error("expected recorded signal marked delivered")
	}
}

func TestRun_FetchFailureSkipsSymbolOnly(t *testing.T) {
	fetcher := &testFetcher{
		bars: map[string][]model.Candle{"EURUSD=X/15m": candles(1.08, 1.085, 1.092)},
		errs: map[string]error{"^NDX": errors.New("rate limited")},
	}
	note := &captureNotifier{}
	rec := &captureRecorder{}

	cfg := testConfig(
		model.SymbolConfig{Name: "NASDAQ", Tickers: []string{"^NDX"}, Interval: "15m", Lookback: "5d"},
		model.SymbolConfig{Name: "EURUSD", Tickers: []string{"EURUSD=X"}, Interval: "15m", Lookback: "5d"},
	)

	summary, err := New(cfg, fetcher, notifiers(note), rec).Run(context.Background())
	if err != nil {
		t.Fatalf("one failed symbol must not abort the run: %v", err)
	}

	if !summary.Reports[0].Failed() {
		t.Error("expected NASDAQ marked failed")
	}
	if summary.Reports[1].Failed() {
		t.Error("expected EURUSD classified")
	}
	if summary.FailedSymbols() != 1 {
		t.Errorf("expected 1 failed symbol, got %d", summary.FailedSymbols())
	}

	// The failed symbol still gets a message, with the reason.
	if !strings.Contains(note.sent[0], "no data") || !strings.Contains(note.sent[0], "rate limited") {
		t.Errorf("expected failure note:\n%s", note.sent[0])
	}

	if len(rec.signals) != 1 {
		t.Fatalf("expected only the classified symbol recorded, got %d", len(rec.signals))
	}
	if rec.runs[0].SymbolsFailed != 1 || !strings.Contains(rec.runs[0].Notes, "NASDAQ") {
		t.Errorf("unexpected run record: %+v", rec.runs[0])
	}
}

func TestRun_AllSymbolsFailedIsAnError(t *testing.T) {
	fetcher := &testFetcher{errs: map[string]error{
		"^NDX": errors.New("down"),
		"GC=F": errors.New("down"),
	}}
	note := &captureNotifier{}

	cfg := testConfig(
		model.SymbolConfig{Name: "NASDAQ", Tickers: []string{"^NDX"}, Interval: "15m", Lookback: "5d"},
		model.SymbolConfig{Name: "GOLD", Tickers: []string{"GC=F"}, Interval: "15m", Lookback: "5d"},
	)

	_, err := New(cfg, fetcher, notifiers(note), &captureRecorder{}).Run(context.Background())
	if err == nil {
		t.Fatal("expected error when every symbol fails")
	}
	if !strings.Contains(err.Error(), "no symbol produced data") {
		t.Errorf("unexpected error: %v", err)
	}

	// Failure notes and the summary still go out.
	if len(note.sent) != 3 {
		t.Errorf("expected 2 failure notes and a summary, got %d", len(note.sent))
	}
}

func TestRun_NotifierFailureIsNonFatal(t *testing.T) {
	fetcher := &testFetcher{bars: map[string][]model.Candle{
		"^NDX/15m": candles(100, 100.5, 101.2),
	}}
	bad := &captureNotifier{name: "bad", fail: true}
	good := &captureNotifier{name: "good"}

	cfg := testConfig(model.SymbolConfig{Name: "NASDAQ", Tickers: []string{"^NDX"}, Interval: "15m", Lookback: "5d"})

	summary, err := New(cfg, fetcher, notifiers(bad, good), &captureRecorder{}).Run(context.Background())
	if err != nil {
		t.Fatalf("a failing channel must not fail the run: %v", err)
	}
	if summary.Failures != 2 {
		t.Errorf("expected 2 recorded send failures, got %d", summary.Failures)
	}
	if summary.Delivered != 2 {
		t.Errorf("expected 2 successful sends, got %d", summary.Delivered)
	}
	if len(good.sent) != 2 {
		t.Errorf("expected working channel to get both messages, got %d", len(good.sent))
	}
}

func TestRun_SummaryUndeliverableIsAnError(t *testing.T) {
	fetcher := &testFetcher{bars: map[string][]model.Candle{
		"^NDX/15m": candles(100, 100.5, 101.2),
	}}
	bad := &captureNotifier{fail: true}

	cfg := testConfig(model.SymbolConfig{Name: "NASDAQ", Tickers: []string{"^NDX"}, Interval: "15m", Lookback: "5d"})

	_, err := New(cfg, fetcher, notifiers(bad), &captureRecorder{}).Run(context.Background())
	if err == nil {
		t.Fatal("expected error when nothing can be delivered")
	}
	if !strings.Contains(err.Error(), "undeliverable") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRun_TrendFilterOverridesConflict(t *testing.T) {
	fetcher := &testFetcher{bars: map[string][]model.Candle{
		// Short timeframe pushes up hard, the hourly series sits well below
		// its average.
		"^NDX/15m": candles(100, 100.5, 101.2),
		"^NDX/60m": candles(110, 108, 106, 104, 102, 100),
	}}
	note := &captureNotifier{}

	cfg := testConfig(model.SymbolConfig{Name: "NASDAQ", Tickers: []string{"^NDX"}, Interval: "15m", Lookback: "5d"})
	cfg.Scan.TrendFilter.Enabled = true
	cfg.Scan.TrendFilter.Interval = "60m"
	cfg.Scan.TrendFilter.Lookback = "10d"
	cfg.Scan.TrendFilter.SMAPeriod = 5

	summary, err := New(cfg, fetcher, notifiers(note), &captureRecorder{}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := summary.Reports[0]
	if r.Signal.Direction != model.DirectionBuy {
		t.Fatalf("expected short-term Buy, got %s", r.Signal.Direction)
	}
	if r.HTFBias != model.DirectionSell {
		t.Fatalf("expected HTF Sell bias, got %s", r.HTFBias)
	}
	if r.Final != model.DirectionSell {
		t.Errorf("expected higher timeframe to win, got %s", r.Final)
	}
	if !strings.Contains(note.sent[0], "HTF overrides Buy") {
		t.Errorf("expected override note in message:\n%s", note.sent[0])
	}
}

func TestRun_Cancellation(t *testing.T) {
	fetcher := &testFetcher{bars: map[string][]model.Candle{
		"^NDX/15m": candles(100, 100.5, 101.2),
	}}
	cfg := testConfig(model.SymbolConfig{Name: "NASDAQ", Tickers: []string{"^NDX"}, Interval: "15m", Lookback: "5d"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cfg, fetcher, notifiers(&captureNotifier{}), &captureRecorder{}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
