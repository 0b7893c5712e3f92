package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockScout/internal/model"
)

// SQLiteRecorder persists screening runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
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
		`CREATE TABLE IF NOT EXISTS screening_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			rule_text     TEXT,
			predicate     TEXT,
			universe      INTEGER,
			match_count   INTEGER,
			skipped_count INTEGER,
			simulated     INTEGER,
			warnings      TEXT,
			duration_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON screening_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS screening_matches (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     INTEGER NOT NULL REFERENCES screening_runs(id),
			symbol     TEXT NOT NULL,
			name       TEXT,
			price      REAL,
			pct_change REAL,
			market_cap REAL,
			pe         REAL,
			pb         REAL,
			rsi        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run ON screening_matches(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores one screening run and its matches.
func (r *SQLiteRecorder) RecordRun(res *model.ScreeningResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	simulated := 0
	if res.Simulated {
		simulated = 1
	}
	result, err := tx.Exec(`INSERT INTO screening_runs
		(timestamp, rule_text, predicate, universe, match_count, skipped_count, simulated, warnings, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.RuleText, res.Predicate.String(),
		res.Universe, len(res.Matches), len(res.Skipped), simulated,
		strings.Join(res.Warnings, "; "),
		res.FinishedAt.Sub(res.StartedAt).Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, m := range res.Matches {
		price, _ := m.Features.Get(model.FieldPrice)
		pct, _ := m.Features.Get(model.FieldPctChange)
		mcap, _ := m.Features.Get(model.FieldMarketCap)
		pe, _ := m.Features.Get(model.FieldPE)
		pb, _ := m.Features.Get(model.FieldPB)
		rsi, _ := m.Features.Get(model.FieldRSI)
		if _, err := tx.Exec(`INSERT INTO screening_matches
			(run_id, symbol, name, price, pct_change, market_cap, pe, pb, rsi)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			runID, m.Info.Symbol, m.Info.Name, price, pct, mcap, pe, pb, rsi,
		); err != nil {
			return fmt.Errorf("insert match %s: %w", m.Info.Symbol, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
