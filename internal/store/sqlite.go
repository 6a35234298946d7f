package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/me/scoop/pkg/model"

	_ "modernc.org/sqlite"
)

// timeFormat is RFC 3339 with a fixed-width fraction so that stored
// timestamps sort lexically in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Run operations ---

// CreateRun inserts a run and its full event stream in one transaction.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *model.Run) error {
	s.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID, "events", len(run.Events))

	jobsJSON, err := json.Marshal(run.Jobs)
	if err != nil {
		return fmt.Errorf("marshal jobs: %w", err)
	}
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, mode, quantum, jobs, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Label, string(run.Mode), run.Quantum, string(jobsJSON), string(summaryJSON),
		run.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.Events) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO events (run_id, seq, kind, job_id, job, time, slice, clock)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare event insert: %w", err)
		}
		defer stmt.Close()

		for _, ev := range run.Events {
			if _, err := stmt.ExecContext(ctx, run.ID, ev.Seq, string(ev.Kind), ev.JobID, ev.Job, ev.Time, ev.Slice, ev.Clock); err != nil {
				return fmt.Errorf("insert event %d: %w", ev.Seq, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetRun returns the run with its events, or nil if it does not exist.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "id", id)

	run, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT id, label, mode, quantum, jobs, summary, created_at FROM runs WHERE id = ?`, id))
	if err != nil || run == nil {
		return nil, err
	}

	run.Events, err = s.ListEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns one page of runs, newest first, without their events.
func (s *SQLiteStore) ListRuns(ctx context.Context, opts model.ListOptions) ([]*model.Run, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "runs", "limit", opts.Limit, "offset", opts.Offset)
	opts.Clamp()

	var whereClauses []string
	var countArgs []any
	if opts.Mode != "" {
		whereClauses = append(whereClauses, "mode = ?")
		countArgs = append(countArgs, string(opts.Mode))
	}
	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`+whereSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(countArgs, opts.Limit, opts.Offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, mode, quantum, jobs, summary, created_at
		 FROM runs`+whereSQL+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		listArgs...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

// DeleteRun removes a run and its events.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "runs", "id", id)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return tx.Commit()
}

// PruneRuns deletes runs created before cutoff and returns how many were removed.
func (s *SQLiteStore) PruneRuns(ctx context.Context, cutoff time.Time) (int, error) {
	s.logger.Debug("sql", "op", "prune", "table", "runs", "before", cutoff)
	return s.pruneWhere(ctx, `created_at < ?`, cutoff.UTC().Format(timeFormat))
}

// TrimRuns keeps the newest keep runs and deletes the rest.
func (s *SQLiteStore) TrimRuns(ctx context.Context, keep int) (int, error) {
	s.logger.Debug("sql", "op", "trim", "table", "runs", "keep", keep)
	if keep < 0 {
		keep = 0
	}
	return s.pruneWhere(ctx,
		`id NOT IN (SELECT id FROM runs ORDER BY created_at DESC, id LIMIT ?)`, keep)
}

func (s *SQLiteStore) pruneWhere(ctx context.Context, cond string, args ...any) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM events WHERE run_id IN (SELECT id FROM runs WHERE `+cond+`)`, args...); err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE `+cond, args...)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(n), nil
}

// --- Event operations ---

// ListEvents returns a run's events in stream order.
func (s *SQLiteStore) ListEvents(ctx context.Context, runID string) ([]model.Event, error) {
	s.logger.Debug("sql", "op", "select", "table", "events", "run_id", runID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, kind, job_id, job, time, slice, clock
		 FROM events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var ev model.Event
		var kind string
		if err := rows.Scan(&ev.Seq, &kind, &ev.JobID, &ev.Job, &ev.Time, &ev.Slice, &ev.Clock); err != nil {
			return nil, err
		}
		ev.Kind = model.EventKind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.Run, error) {
	var run model.Run
	var mode, jobsJSON, summaryJSON, createdAt string

	err := row.Scan(&run.ID, &run.Label, &mode, &run.Quantum, &jobsJSON, &summaryJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.Mode = model.Mode(mode)
	if err := json.Unmarshal([]byte(jobsJSON), &run.Jobs); err != nil {
		return nil, fmt.Errorf("unmarshal jobs: %w", err)
	}
	if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &run, nil
}
