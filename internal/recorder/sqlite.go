package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists simulation history to a SQLite database.
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

	// WAL mode so dashboards can read while the simulator writes.
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
		`CREATE TABLE IF NOT EXISTS unbond_requests (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			chunk_id       TEXT,
			amount         REAL,
			start_era      INTEGER,
			prev_unbonded  REAL,
			estimated_eras INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_ts ON unbond_requests(timestamp)`,

		`CREATE TABLE IF NOT EXISTS rebonds (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			chunk_id        TEXT,
			requested       REAL,
			actual          REAL,
			remaining       REAL,
			removed         INTEGER,
			ledger_adjusted INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rebonds_ts ON rebonds(timestamp)`,

		`CREATE TABLE IF NOT EXISTS era_advances (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			advanced_by INTEGER,
			current_era INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_advances_ts ON era_advances(timestamp)`,

		`CREATE TABLE IF NOT EXISTS evaluations (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			chunk_id       TEXT,
			era            INTEGER,
			eligible       INTEGER,
			reason         TEXT,
			violation_era  INTEGER,
			eras_remaining INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_ts ON evaluations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS replay_estimates (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			era            INTEGER,
			total_stake    REAL,
			unbonded       REAL,
			estimated_eras INTEGER,
			has_estimate   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_replay_era ON replay_estimates(era)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRequest(evt *RequestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO unbond_requests
		(timestamp, chunk_id, amount, start_era, prev_unbonded, estimated_eras)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.ChunkID, evt.Amount, evt.StartEra,
		evt.PrevUnbonded, evt.EstimatedEras,
	)
	return err
}

func (r *SQLiteRecorder) RecordRebond(evt *RebondEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO rebonds
		(timestamp, chunk_id, requested, actual, remaining, removed, ledger_adjusted)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.ChunkID, evt.Requested, evt.Actual,
		evt.Remaining, evt.Removed, evt.LedgerAdjusted,
	)
	return err
}

func (r *SQLiteRecorder) RecordAdvance(evt *AdvanceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO era_advances
		(timestamp, advanced_by, current_era)
		VALUES (?,?,?)`,
		time.Now().Unix(), evt.By, evt.CurrentEra,
	)
	return err
}

func (r *SQLiteRecorder) RecordEvaluation(evt *EvaluationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO evaluations
		(timestamp, chunk_id, era, eligible, reason, violation_era, eras_remaining)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.ChunkID, evt.Era, evt.Eligible,
		evt.Reason, evt.ViolationEra, evt.ErasRemaining,
	)
	return err
}

func (r *SQLiteRecorder) RecordReplay(evt *ReplayEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO replay_estimates
		(timestamp, era, total_stake, unbonded, estimated_eras, has_estimate)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Era, evt.TotalStake, evt.Unbonded,
		evt.EstimatedEras, evt.HasEstimate,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
