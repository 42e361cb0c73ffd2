package recorder

// SignalRecord is one classified symbol from a scan run.
type SignalRecord struct {
	ID        int64   `db:"id"`
	Timestamp int64   `db:"timestamp"`
	RunID     string  `db:"run_id"`
	Symbol    string  `db:"symbol"`
	Ticker    string  `db:"ticker"`
	Session   string  `db:"session"`
	Direction string  `db:"direction"`
	Wave      string  `db:"wave"`
	Score     int     `db:"score"`
	MovePct   float64 `db:"move_pct"`
	LastClose float64 `db:"last_close"`
	Reason    string  `db:"reason"`
	Delivered bool    `db:"delivered"`
}

// RunRecord summarizes a completed scan cycle.
type RunRecord struct {
	ID            int64  `db:"id"`
	Timestamp     int64  `db:"timestamp"`
	RunID         string `db:"run_id"`
	Session       string `db:"session"`
	SymbolsTotal  int    `db:"symbols_total"`
	SymbolsOK     int    `db:"symbols_ok"`
	SymbolsFailed int    `db:"symbols_failed"`
	Notes         string `db:"notes"`
}

// Recorder persists scan history for analysis. Timestamps are filled in by
// the implementations at insert time.
type Recorder interface {
	RecordSignal(rec *SignalRecord) error
	RecordRun(rec *RunRecord) error
	// RecentSignals returns the newest signals first, for the /last command.
	RecentSignals(limit int) ([]SignalRecord, error)
	Close() error
}
