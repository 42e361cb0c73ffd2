package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc readers don't block the scanner's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_signals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			run_id     TEXT NOT NULL,
			symbol     TEXT NOT NULL,
			ticker     TEXT,
			session    TEXT,
			direction  TEXT,
			wave       TEXT,
			score      INTEGER,
			move_pct   REAL,
			last_close REAL,
			reason     TEXT,
			delivered  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON scan_signals(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_run ON scan_signals(run_id)`,

		`CREATE TABLE IF NOT EXISTS scan_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			run_id         TEXT NOT NULL,
			session        TEXT,
			symbols_total  INTEGER,
			symbols_ok     INTEGER,
			symbols_failed INTEGER,
			notes          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON scan_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(rec *SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_signals
		(timestamp, run_id, symbol, ticker, session, direction, wave,
		 score, move_pct, last_close, reason, delivered)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.RunID, rec.Symbol, rec.Ticker, rec.Session,
		rec.Direction, rec.Wave, rec.Score, rec.MovePct, rec.LastClose,
		rec.Reason, rec.Delivered,
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_runs
		(timestamp, run_id, session, symbols_total, symbols_ok, symbols_failed, notes)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.RunID, rec.Session,
		rec.SymbolsTotal, rec.SymbolsOK, rec.SymbolsFailed, rec.Notes,
	)
	return err
}

func (r *SQLiteRecorder) RecentSignals(limit int) ([]SignalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, run_id, symbol, ticker, session,
		direction, wave, score, move_pct, last_close, reason, delivered
		FROM scan_signals ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		var rec SignalRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.RunID, &rec.Symbol,
			&rec.Ticker, &rec.Session, &rec.Direction, &rec.Wave, &rec.Score,
			&rec.MovePct, &rec.LastClose, &rec.Reason, &rec.Delivered); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
