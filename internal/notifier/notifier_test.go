package notifier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ImpulseRadar/internal/model"
)

func sampleReport() *model.SymbolReport {
	return &model.SymbolReport{
		Symbol: "NASDAQ",
		Ticker: "^NDX",
		Signal: &model.Signal{
			Direction: model.DirectionBuy,
			Wave:      model.WaveImpulse,
			Score:     4,
			MovePct:   1.2,
			Reason:    "3 consecutive bars UP; breaks prior high",
		},
		HTFBias:   model.DirectionBuy,
		Final:     model.DirectionBuy,
		LastClose: 18123.5,
		Session:   model.SessionLondon,
	}
}

func TestFormatReport(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	msg := FormatReport(sampleReport(), at)

	for _, want := range []string{
		"<b>NASDAQ</b> (^NDX)",
		"2025-03-10 14:30 UTC",
		"Session: London",
		"Last: 18123.50000",
		"Bias: Buy (HTF Buy)",
		"Wave: Impulse (score 4, +1.20%)",
		"3 consecutive bars UP",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatReport_FailedSymbol(t *testing.T) {
	r := &model.SymbolReport{Symbol: "GOLD", FailReason: "GC=F: rate limited"}
	msg := FormatReport(r, time.Now())

	if !strings.Contains(msg, "no data: GC=F: rate limited") {
		t.Errorf("expected failure reason in message:\n%s", msg)
	}
	if strings.Contains(msg, "Session") {
		t.Errorf("failed symbol should not render signal lines:\n%s", msg)
	}
}

func TestFormatReport_BiasVariants(t *testing.T) {
	at := time.Now()

	r := sampleReport()
	r.HTFBias = model.DirectionNeutral
	if msg := FormatReport(r, at); strings.Contains(msg, "HTF") {
		t.Errorf("neutral HTF bias should not be mentioned:\n%s", msg)
	}

	r = sampleReport()
	r.HTFBias = model.DirectionSell
	r.Final = model.DirectionSell
	if msg := FormatReport(r, at); !strings.Contains(msg, "Bias: Sell (HTF overrides Buy)") {
		t.Errorf("expected override note:\n%s", msg)
	}
}

func TestFormatRunSummary(t *testing.T) {
	s := &model.RunSummary{
		RunID:     "abc-123",
		StartedAt: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		Session:   model.SessionLondon,
		Reports: []*model.SymbolReport{
			sampleReport(),
			{Symbol: "GOLD", FailReason: "GC=F: rate limited"},
		},
	}

	msg := FormatRunSummary(s)
	for _, want := range []string{
		"2025-03-10 14:30 UTC",
		"London session",
		"NASDAQ: Buy Impulse (+1.20%)",
		"GOLD: failed (GC=F: rate limited)",
		"1/2 symbols without data",
		"run <code>abc-123</code>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("summary missing %q:\n%s", want, msg)
		}
	}
}

func TestTelegramNotifier_Send(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := &TelegramNotifier{BotToken: "tok", ChatID: "42", BaseURL: server.URL, Client: server.Client()}
	if err := n.Send("<b>hello</b>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/bottok/sendMessage" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotPayload["chat_id"] != "42" || gotPayload["text"] != "<b>hello</b>" || gotPayload["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", gotPayload)
	}
}

func TestTelegramNotifier_SendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	n := &TelegramNotifier{BotToken: "tok", ChatID: "42", BaseURL: server.URL, Client: server.Client()}
	err := n.Send("hello")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestEmailNotifier_BuildMessage(t *testing.T) {
	e := NewEmailNotifier("smtp.example.com", 587, "user", "pass",
		"scan@example.com", []string{"a@example.com", "b@example.com"}, "")

	msg := string(e.buildMessage("📡 <b>NASDAQ</b> (^NDX)"))

	for _, want := range []string{
		"From: scan@example.com\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Subject: Impulse scan\r\n",
		"📡 NASDAQ (^NDX)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "<b>") {
		t.Errorf("expected HTML stripped:\n%s", msg)
	}
}

func TestStripHTML(t *testing.T) {
	in := "<b>Buy</b> <i>Impulse</i> <code>run-1</code> stays 1 < 2"
	want := "Buy Impulse run-1 stays 1 < 2"
	if got := stripHTML(in); got != want {
		t.Errorf("stripHTML = %q, want %q", got, want)
	}
}
