// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typesprint/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const bestKey = "pb"

// Store wraps SQLite access for personal best and test history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS personal_best (
			key TEXT PRIMARY KEY,
			wpm INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			duration_s INTEGER NOT NULL,
			words INTEGER NOT NULL,
			net_wpm INTEGER NOT NULL,
			raw_wpm INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			consistency INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_samples (
			session_id TEXT NOT NULL,
			second INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			PRIMARY KEY (session_id, second)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetBest returns the stored personal best net WPM, or 0 when none exists.
func (s *Store) GetBest(ctx context.Context) (int, error) {
	var wpm int
	err := s.db.QueryRowContext(ctx, `SELECT wpm FROM personal_best WHERE key = ?`, bestKey).Scan(&wpm)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return wpm, nil
}

// SetBest overwrites the personal best.
func (s *Store) SetBest(ctx context.Context, wpm int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO personal_best (key, wpm) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET wpm = excluded.wpm`, bestKey, wpm)
	return err
}

// ResetBest removes the personal best.
func (s *Store) ResetBest(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM personal_best WHERE key = ?`, bestKey)
	return err
}

// InsertSession stores a finished test and its per-second samples. An empty ID is generated.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (id string, err error) {
	id = rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, mode, duration_s, words, net_wpm, raw_wpm, accuracy, consistency, correct, incorrect)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		string(rec.Mode),
		rec.Duration,
		rec.Words,
		rec.NetWPM,
		rec.RawWPM,
		rec.Accuracy,
		rec.Consistency,
		rec.Correct,
		rec.Incorrect,
	)
	if err != nil {
		return "", err
	}

	if len(rec.Samples) > 0 {
		stmt, perr := tx.PrepareContext(ctx, `INSERT INTO session_samples (session_id, second, wpm) VALUES (?, ?, ?)`)
		if perr != nil {
			err = perr
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, wpm := range rec.Samples {
			if _, err = stmt.ExecContext(ctx, id, i+1, wpm); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ListSessions returns finished tests matching cfg, oldest first, with their samples.
func (s *Store) ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, string(cfg.Mode))
	}
	if cfg.Duration > 0 {
		clauses = append(clauses, "duration_s = ?")
		args = append(args, cfg.Duration)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, mode, duration_s, words, net_wpm, raw_wpm, accuracy, consistency, correct, incorrect
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var startedAt, endedAt, mode string
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &mode, &rec.Duration, &rec.Words,
			&rec.NetWPM, &rec.RawWPM, &rec.Accuracy, &rec.Consistency, &rec.Correct, &rec.Incorrect); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		rec.Mode = model.Mode(mode)
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachSamples(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) attachSamples(ctx context.Context, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		return nil
	}
	index := make(map[string]int, len(sessions))
	placeholders := make([]string, len(sessions))
	args := make([]any, len(sessions))
	for i, rec := range sessions {
		index[rec.ID] = i
		placeholders[i] = "?"
		args[i] = rec.ID
	}
	query := fmt.Sprintf(`SELECT session_id, wpm FROM session_samples
		WHERE session_id IN (%s)
		ORDER BY session_id, second`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var id string
		var wpm int
		if err := rows.Scan(&id, &wpm); err != nil {
			return err
		}
		if i, ok := index[id]; ok {
			sessions[i].Samples = append(sessions[i].Samples, wpm)
		}
	}
	return rows.Err()
}
