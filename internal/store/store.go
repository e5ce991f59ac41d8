// Package store handles SQLite persistence of run history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/kathe/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
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

// timeLayout keeps every fraction digit so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			wordlist_path TEXT NOT NULL,
			alphabet TEXT NOT NULL,
			allow_repetition INTEGER NOT NULL,
			mode TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			total INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_bucket_counts (
			run_id INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			letter TEXT NOT NULL,
			words INTEGER NOT NULL,
			PRIMARY KEY (run_id, rank)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_alphabet ON runs(alphabet);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed run and its bucket counts.
func (s *Store) InsertRun(ctx context.Context, run model.Run, buckets []model.BucketCount) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, ended_at, wordlist_path, alphabet, allow_repetition, mode, output_dir, total, skipped, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(run.StartedAt),
		formatTime(run.EndedAt),
		run.WordListPath,
		run.Alphabet,
		run.AllowRepetition,
		string(run.Mode),
		run.OutputDir,
		run.Total,
		run.Skipped,
		run.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(buckets) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_bucket_counts (run_id, rank, letter, words) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, b := range buckets {
			if _, err := stmt.ExecContext(ctx, id, b.Rank, b.Letter, b.Words); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns runs matching filter, oldest first. With filter.Last set,
// only the most recent runs are returned.
func (s *Store) ListRuns(ctx context.Context, filter model.HistoryFilter) ([]model.Run, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Alphabet != "" {
		clauses = append(clauses, "alphabet = ?")
		args = append(args, filter.Alphabet)
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, wordlist_path, alphabet, allow_repetition, mode, output_dir, total, skipped, duration_ms
		FROM runs
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
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

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var startedAt, endedAt, mode string
		if err := rows.Scan(&run.ID, &startedAt, &endedAt, &run.WordListPath, &run.Alphabet,
			&run.AllowRepetition, &mode, &run.OutputDir, &run.Total, &run.Skipped, &run.DurationMs); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if run.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		run.Mode = model.Mode(mode)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(runs) > filter.Last {
		runs = runs[len(runs)-filter.Last:]
	}
	return runs, nil
}

// ListBucketCounts returns the bucket counts of one run in rank order.
func (s *Store) ListBucketCounts(ctx context.Context, runID int64) ([]model.BucketCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, letter, words FROM run_bucket_counts WHERE run_id = ? ORDER BY rank ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.BucketCount
	for rows.Next() {
		var b model.BucketCount
		if err := rows.Scan(&b.Rank, &b.Letter, &b.Words); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
