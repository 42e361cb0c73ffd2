package notifier

import (
	"fmt"
	"strings"
	"time"

	"ImpulseRadar/internal/model"
)

// FormatReport renders one symbol's scan outcome as a Telegram HTML message.
func FormatReport(r *model.SymbolReport, at time.Time) string {
	var b strings.Builder

	if r.Failed() {
		b.WriteString(fmt.Sprintf("📡 <b>%s</b>\n", r.Symbol))
		b.WriteString(fmt.Sprintf("⚠️ no data: %s\n", r.FailReason))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("📡 <b>%s</b> (%s)\n", r.Symbol, r.Ticker))
	b.WriteString(fmt.Sprintf("🕒 %s UTC\n", at.UTC().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("🔎 Session: %s\n", r.Session))
	b.WriteString(fmt.Sprintf("📈 Last: %.5f\n", r.LastClose))
	b.WriteString("🧭 Bias: " + biasLine(r) + "\n")
	b.WriteString(fmt.Sprintf("🌊 Wave: %s (score %d, %+.2f%%)\n", r.Signal.Wave, r.Signal.Score, r.Signal.MovePct))
	b.WriteString(fmt.Sprintf("💡 %s\n", r.Signal.Reason))

	return b.String()
}

// biasLine shows the final direction, and how the higher-timeframe filter
// shaped it when that filter ran.
func biasLine(r *model.SymbolReport) string {
	if r.HTFBias == model.DirectionNeutral {
		return string(r.Final)
	}
	if r.Final != r.Signal.Direction {
		return fmt.Sprintf("%s (HTF overrides %s)", r.Final, r.Signal.Direction)
	}
	return fmt.Sprintf("%s (HTF %s)", r.Final, r.HTFBias)
}

// FormatRunSummary renders the end-of-run digest sent after all symbols.
func FormatRunSummary(s *model.RunSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Impulse scan</b> | %s UTC | %s session\n",
		s.StartedAt.UTC().Format("2006-01-02 15:04"), s.Session))

	for _, r := range s.Reports {
		if r.Failed() {
			b.WriteString(fmt.Sprintf("  %s: failed (%s)\n", r.Symbol, r.FailReason))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s: %s %s (%+.2f%%)\n",
			r.Symbol, r.Final, r.Signal.Wave, r.Signal.MovePct))
	}

	if failed := s.FailedSymbols(); failed > 0 {
		b.WriteString(fmt.Sprintf("⚠️ %d/%d symbols without data\n", failed, len(s.Reports)))
	}
	b.WriteString(fmt.Sprintf("🧾 run <code>%s</code>\n", s.RunID))

	return b.String()
}

// FormatUsage lists the commands the daemon understands.
func FormatUsage() string {
	return strings.Join([]string{
		"🤖 <b>ImpulseRadar commands</b>",
		"/scan - run a full scan now",
		"/last - show recently recorded signals",
		"/help - show this message",
	}, "\n")
}
