package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	p "github.com/quipper/poc/housejobs/pkg/repositories/people"
)

// SQLiteRepo stores one row per person; days and tasks are JSON arrays.
type SQLiteRepo struct{ db *sql.DB }

// Ensure interface compliance
var _ p.Repository = (*SQLiteRepo)(nil)

func NewSQLiteRepo(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas safe for simple single-process usage
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteRepo{db: db}, nil
}

func (s *SQLiteRepo) Disconnect() { _ = s.db.Close() }

func (s *SQLiteRepo) Health(ctx context.Context) error { return s.db.PingContext(ctx) }

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS people (
	  person_id TEXT PRIMARY KEY,
	  display_name TEXT NOT NULL DEFAULT '',
	  enabled INTEGER NOT NULL DEFAULT 0,
	  job_name TEXT NOT NULL DEFAULT '',
	  job_days_json TEXT NOT NULL DEFAULT '[]',
	  job_tasks_json TEXT NOT NULL DEFAULT '[]',
	  created_at TIMESTAMP NOT NULL,
	  updated_at TIMESTAMP NOT NULL
	);
	`)
	return err
}

const selectColumns = `person_id, display_name, enabled, job_name, job_days_json, job_tasks_json, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*p.Person, error) {
	var rec p.Person
	var enabled int
	var daysJSON, tasksJSON string
	if err := row.Scan(&rec.PersonID, &rec.DisplayName, &enabled, &rec.JobName, &daysJSON, &tasksJSON, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Enabled = enabled != 0
	if err := json.Unmarshal([]byte(daysJSON), &rec.JobDays); err != nil {
		return nil, fmt.Errorf("decode job days for %s: %w", rec.PersonID, err)
	}
	if err := json.Unmarshal([]byte(tasksJSON), &rec.JobTasks); err != nil {
		return nil, fmt.Errorf("decode job tasks for %s: %w", rec.PersonID, err)
	}
	if rec.JobDays == nil {
		rec.JobDays = []string{}
	}
	if rec.JobTasks == nil {
		rec.JobTasks = []string{}
	}
	return &rec, nil
}

func (s *SQLiteRepo) FetchAll(ctx context.Context) ([]*p.Person, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM people`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*p.Person
	for rows.Next() {
		rec, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteRepo) FetchOne(ctx context.Context, personID string) (*p.Person, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM people WHERE person_id = ?`, personID)
	rec, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteRepo) UpsertMissing(ctx context.Context, personID, displayName string) error {
	if personID == "" {
		return errors.New("people: empty person id")
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO people (person_id, display_name, enabled, job_name, job_days_json, job_tasks_json, created_at, updated_at)
	VALUES (?, ?, 0, '', '[]', '[]', ?, ?)
	ON CONFLICT(person_id) DO NOTHING
	`, personID, displayName, now, now)
	return err
}

func (s *SQLiteRepo) UpdateJob(ctx context.Context, personID string, u p.JobUpdate) error {
	days := p.CanonicalizeDays(u.JobDays)
	tasks := u.JobTasks
	if tasks == nil {
		tasks = []string{}
	}
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return err
	}
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	enabled := 0
	if u.Enabled {
		enabled = 1
	}
	res, err := s.db.ExecContext(ctx, `
	UPDATE people SET enabled = ?, job_name = ?, job_days_json = ?, job_tasks_json = ?, updated_at = ?
	WHERE person_id = ?
	`, enabled, u.JobName, string(daysJSON), string(tasksJSON), time.Now().UTC(), personID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update job for %s: %w", personID, p.ErrNotFound)
	}
	return nil
}
