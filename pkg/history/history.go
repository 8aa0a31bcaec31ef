// Package history provides SQLite-backed persistence for workflow sessions
// and their round records. The round log is append-only and is the audit
// trail for why a run converged, held, or hit its round limit.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// schemaV1 defines the initial database schema.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id    TEXT PRIMARY KEY,
	doc_path      TEXT NOT NULL,
	mode          TEXT NOT NULL DEFAULT 'new-project',
	max_rounds    INTEGER NOT NULL DEFAULT 5,
	dry_run       INTEGER NOT NULL DEFAULT 0,
	final_phase   TEXT NOT NULL DEFAULT '',
	reason        TEXT NOT NULL DEFAULT '',
	started_at    INTEGER NOT NULL,
	finished_at   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS round_records (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	round       INTEGER NOT NULL,
	review      TEXT NOT NULL DEFAULT '',
	judgement   TEXT NOT NULL DEFAULT '',
	patch_hash  TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	UNIQUE(session_id, round)
);
CREATE INDEX IF NOT EXISTS idx_rounds_session ON round_records(session_id, round);
`

// SessionRow is one recorded workflow session.
type SessionRow struct {
	SessionID  string
	DocPath    string
	Mode       string
	MaxRounds  int
	DryRun     bool
	FinalPhase string
	Reason     string
	StartedAt  int64
	FinishedAt int64
}

// RoundRow is one append-only round record.
type RoundRow struct {
	SessionID string
	Round     int
	Review    string
	Judgement string
	PatchHash string
	Outcome   string
	CreatedAt int64
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginSession inserts a new session row.
func (s *Store) BeginSession(ctx context.Context, row SessionRow) error {
	const q = `INSERT INTO sessions (session_id, doc_path, mode, max_rounds, dry_run, started_at)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		row.SessionID, row.DocPath, row.Mode, row.MaxRounds, boolToInt(row.DryRun), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// FinishSession records the terminal phase and reason for a session.
func (s *Store) FinishSession(ctx context.Context, sessionID, finalPhase, reason string) error {
	const q = `UPDATE sessions SET final_phase = ?, reason = ?, finished_at = ? WHERE session_id = ?`
	_, err := s.db.ExecContext(ctx, q, finalPhase, reason, time.Now().Unix(), sessionID)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// RecordRound appends one round record.
func (s *Store) RecordRound(ctx context.Context, row RoundRow) error {
	const q = `INSERT INTO round_records (session_id, round, review, judgement, patch_hash, outcome, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		row.SessionID, row.Round, row.Review, row.Judgement, row.PatchHash, row.Outcome, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record round: %w", err)
	}
	return nil
}

// ListSessions returns sessions, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionRow, error) {
	const q = `SELECT session_id, doc_path, mode, max_rounds, dry_run, final_phase, reason, started_at, finished_at
FROM sessions
ORDER BY started_at DESC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionRow
	for rows.Next() {
		var r SessionRow
		var dryRun int
		if err := rows.Scan(&r.SessionID, &r.DocPath, &r.Mode, &r.MaxRounds, &dryRun,
			&r.FinalPhase, &r.Reason, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		r.DryRun = dryRun != 0
		sessions = append(sessions, r)
	}
	return sessions, rows.Err()
}

// ListRounds returns all round records for a session in round order.
func (s *Store) ListRounds(ctx context.Context, sessionID string) ([]RoundRow, error) {
	const q = `SELECT session_id, round, review, judgement, patch_hash, outcome, created_at
FROM round_records
WHERE session_id = ?
ORDER BY round ASC`

	rows, err := s.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list round records: %w", err)
	}
	defer rows.Close()

	var records []RoundRow
	for rows.Next() {
		var r RoundRow
		if err := rows.Scan(&r.SessionID, &r.Round, &r.Review, &r.Judgement,
			&r.PatchHash, &r.Outcome, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan round record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
