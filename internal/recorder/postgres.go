package recorder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRecorder persists scan history to PostgreSQL, for deployments
// that already run a database next to the scanner.
type PostgresRecorder struct {
	db *sqlx.DB
}

// NewPostgresRecorder connects with a small pool, verifies the connection
// and runs migrations.
func NewPostgresRecorder(dsn string) (*PostgresRecorder, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("[INFO] postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_signals (
			id         BIGSERIAL PRIMARY KEY,
			timestamp  BIGINT NOT NULL,
			run_id     TEXT NOT NULL,
			symbol     TEXT NOT NULL,
			ticker     TEXT,
			session    TEXT,
			direction  TEXT,
			wave       TEXT,
			score      INTEGER,
			move_pct   DOUBLE PRECISION,
			last_close DOUBLE PRECISION,
			reason     TEXT,
			delivered  BOOLEAN
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON scan_signals(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_run ON scan_signals(run_id)`,

		`CREATE TABLE IF NOT EXISTS scan_runs (
			id             BIGSERIAL PRIMARY KEY,
			timestamp      BIGINT NOT NULL,
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

func (r *PostgresRecorder) RecordSignal(rec *SignalRecord) error {
	_, err := r.db.Exec(`INSERT INTO scan_signals
		(timestamp, run_id, symbol, ticker, session, direction, wave,
		 score, move_pct, last_close, reason, delivered)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		time.Now().Unix(), rec.RunID, rec.Symbol, rec.Ticker, rec.Session,
		rec.Direction, rec.Wave, rec.Score, rec.MovePct, rec.LastClose,
		rec.Reason, rec.Delivered,
	)
	return err
}

func (r *PostgresRecorder) RecordRun(rec *RunRecord) error {
	_, err := r.db.Exec(`INSERT INTO scan_runs
		(timestamp, run_id, session, symbols_total, symbols_ok, symbols_failed, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		time.Now().Unix(), rec.RunID, rec.Session,
		rec.SymbolsTotal, rec.SymbolsOK, rec.SymbolsFailed, rec.Notes,
	)
	return err
}

func (r *PostgresRecorder) RecentSignals(limit int) ([]SignalRecord, error) {
	var out []SignalRecord
	err := r.db.Select(&out, `SELECT id, timestamp, run_id, symbol, ticker, session,
		direction, wave, score, move_pct, last_close, reason, delivered
		FROM scan_signals ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	return r.db.Close()
}
