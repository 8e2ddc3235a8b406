package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"replay/internal/contest"
	"replay/internal/scoring"
)

// ErrNotFound is returned when a contest slug is unknown.
var ErrNotFound = errors.New("store: not found")

const batchSize = 1000

const schema = `
	CREATE TABLE IF NOT EXISTS contests (
		contest_slug VARCHAR(255) PRIMARY KEY,
		contest_name VARCHAR(255) NOT NULL,
		start_time_unix BIGINT NOT NULL,
		end_time_unix BIGINT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tasks (
		contest_slug VARCHAR(255) NOT NULL,
		task_slug VARCHAR(255) NOT NULL,
		label VARCHAR(32) NOT NULL,
		name VARCHAR(255) NOT NULL,
		time_limit_sec INT NOT NULL,
		memory_limit_mb INT NOT NULL,
		PRIMARY KEY (contest_slug, task_slug)
	);
	CREATE TABLE IF NOT EXISTS submissions (
		submission_id BIGINT PRIMARY KEY,
		contest VARCHAR(255) NOT NULL,
		task VARCHAR(255) NOT NULL,
		time_unix BIGINT NOT NULL,
		user_name VARCHAR(255) NOT NULL,
		score BIGINT NOT NULL,
		status VARCHAR(16) NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_contest_time ON submissions (contest, time_unix, submission_id);
`

// Store keeps contests, tasks and submission logs in Postgres.
type Store struct {
	db *pgxpool.Pool
}

// Open connects a pool to url with at most maxConns connections.
func Open(ctx context.Context, url string, maxConns int32) (*Store, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("store: parse config: %w", err)
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}
	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	s.db.Close()
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (s *Store) Contests(ctx context.Context) ([]contest.Contest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT contest_slug, contest_name, start_time_unix, end_time_unix
		FROM contests ORDER BY start_time_unix DESC, contest_slug`)
	if err != nil {
		return nil, fmt.Errorf("store: contests: %w", err)
	}
	defer rows.Close()

	var out []contest.Contest
	for rows.Next() {
		var c contest.Contest
		if err := rows.Scan(&c.Slug, &c.Name, &c.StartTimeUnix, &c.EndTimeUnix); err != nil {
			return nil, fmt.Errorf("store: scan contest: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Contest(ctx context.Context, slug string) (contest.Contest, error) {
	c := contest.Contest{Slug: slug}
	err := s.db.QueryRow(ctx, `
		SELECT contest_name, start_time_unix, end_time_unix
		FROM contests WHERE contest_slug = $1`, slug).Scan(&c.Name, &c.StartTimeUnix, &c.EndTimeUnix)
	if errors.Is(err, pgx.ErrNoRows) {
		return contest.Contest{}, fmt.Errorf("%w: contest %q", ErrNotFound, slug)
	}
	if err != nil {
		return contest.Contest{}, fmt.Errorf("store: contest %q: %w", slug, err)
	}
	return c, nil
}

func (s *Store) Tasks(ctx context.Context, slug string) ([]contest.Task, error) {
	rows, err := s.db.Query(ctx, `
		SELECT contest_slug, task_slug, label, name, time_limit_sec, memory_limit_mb
		FROM tasks WHERE contest_slug = $1 ORDER BY label, task_slug`, slug)
	if err != nil {
		return nil, fmt.Errorf("store: tasks: %w", err)
	}
	defer rows.Close()

	var out []contest.Task
	for rows.Next() {
		var t contest.Task
		if err := rows.Scan(&t.ContestSlug, &t.TaskSlug, &t.Label, &t.Name, &t.TimeLimitSec, &t.MemoryLimitMB); err != nil {
			return nil, fmt.Errorf("store: scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Submissions returns the contest's log in chronological order, restricted
// to the contest window when the contest has one.
func (s *Store) Submissions(ctx context.Context, slug string) ([]scoring.Submission, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.submission_id, s.task, s.time_unix, s.user_name, s.score, s.status
		FROM submissions s
		LEFT JOIN contests c ON c.contest_slug = s.contest
		WHERE s.contest = $1
		  AND (c.contest_slug IS NULL OR c.end_time_unix <= c.start_time_unix
		       OR (s.time_unix >= c.start_time_unix AND s.time_unix < c.end_time_unix))
		ORDER BY s.time_unix, s.submission_id`, slug)
	if err != nil {
		return nil, fmt.Errorf("store: submissions: %w", err)
	}
	defer rows.Close()

	var out []scoring.Submission
	for rows.Next() {
		var sub scoring.Submission
		if err := rows.Scan(&sub.ID, &sub.Task, &sub.TimeUnix, &sub.UserName, &sub.Score, &sub.Status); err != nil {
			return nil, fmt.Errorf("store: scan submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// SaveContest inserts or updates c.
func (s *Store) SaveContest(ctx context.Context, c contest.Contest) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO contests (contest_slug, contest_name, start_time_unix, end_time_unix)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (contest_slug) DO UPDATE
		SET contest_name = EXCLUDED.contest_name,
		    start_time_unix = EXCLUDED.start_time_unix,
		    end_time_unix = EXCLUDED.end_time_unix`,
		c.Slug, c.Name, c.StartTimeUnix, c.EndTimeUnix)
	if err != nil {
		return fmt.Errorf("store: save contest %q: %w", c.Slug, err)
	}
	return nil
}

// SaveTasks inserts tasks, keeping existing rows.
func (s *Store) SaveTasks(ctx context.Context, tasks []contest.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, t := range tasks {
		batch.Queue(`
			INSERT INTO tasks (contest_slug, task_slug, label, name, time_limit_sec, memory_limit_mb)
			VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
			t.ContestSlug, t.TaskSlug, t.Label, t.Name, t.TimeLimitSec, t.MemoryLimitMB)
	}
	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("store: save tasks: %w", err)
	}
	return nil
}

// SaveSubmissions inserts subs for slug in batches. Submissions already
// stored (same id) are skipped, so re-importing a log is harmless.
func (s *Store) SaveSubmissions(ctx context.Context, slug string, subs []scoring.Submission) error {
	for start := 0; start < len(subs); start += batchSize {
		end := start + batchSize
		if end > len(subs) {
			end = len(subs)
		}
		query, args := insertSubmissions(slug, subs[start:end])
		if _, err := s.db.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("store: insert submissions %d..%d: %w", start, end, err)
		}
	}
	return nil
}

// insertSubmissions builds one multi-row INSERT for subs.
func insertSubmissions(slug string, subs []scoring.Submission) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO submissions (submission_id, contest, task, time_unix, user_name, score, status) VALUES ")
	args := make([]any, 0, len(subs)*7)
	argID := 1
	for i, sub := range subs {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)", argID, argID+1, argID+2, argID+3, argID+4, argID+5, argID+6)
		args = append(args, sub.ID, slug, sub.Task, sub.TimeUnix, sub.UserName, sub.Score, sub.Status)
		argID += 7
	}
	b.WriteString(" ON CONFLICT DO NOTHING")
	return b.String(), args
}
