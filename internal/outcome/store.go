package outcome

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// Post statuses.
const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

const timeLayout = time.RFC3339

// Outcome is one row of optimization history.
type Outcome struct {
	PostID    int64
	PostTitle string
	Status    string
	Reason    string
	CycleID   string
	Attempts  int
	UpdatedAt time.Time
}

// DailyMetric is the per-day success and failure rollup.
type DailyMetric struct {
	Day       string
	Optimized int
	Failed    int
}

// Summary aggregates store state for status output and the dashboard.
type Summary struct {
	TotalOptimized int
	TotalFailed    int
	Processing     int
	OptimizedToday int
	FailedToday    int
}

// Store manages outcome persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the outcome database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open outcome db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("outcome database has schema version %d, expected %d (delete the database to reset)", version, schemaVersion)
	}
	return nil
}

// MarkProcessing leases a post for the current run. An existing success
// row is left untouched and the call reports false.
func (s *Store) MarkProcessing(ctx context.Context, postID int64, title, cycleID string, lease time.Duration) (bool, error) {
	now := s.now().UTC()
	expires := now.Add(lease).Format(timeLayout)
	res, err := s.db.ExecContext(ctx, `
INSERT INTO outcomes (post_id, post_title, status, reason, cycle_id, attempts, lease_expires_at, created_at, updated_at)
VALUES (?, ?, ?, '', ?, 1, ?, ?, ?)
ON CONFLICT(post_id) DO UPDATE SET
    post_title = excluded.post_title,
    status = excluded.status,
    reason = '',
    cycle_id = excluded.cycle_id,
    attempts = outcomes.attempts + 1,
    lease_expires_at = excluded.lease_expires_at,
    updated_at = excluded.updated_at
WHERE outcomes.status != 'success'`,
		postID, title, StatusProcessing, cycleID,
		expires, now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return false, fmt.Errorf("mark processing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark processing rows: %w", err)
	}
	return affected > 0, nil
}

// MarkSuccess finalizes a post as optimized and bumps the daily rollup.
func (s *Store) MarkSuccess(ctx context.Context, postID int64, cycleID string) error {
	return s.finalize(ctx, postID, cycleID, StatusSuccess, "")
}

// MarkFailed finalizes a post as failed with a taxonomy-prefixed reason
// and bumps the daily rollup.
func (s *Store) MarkFailed(ctx context.Context, postID int64, cycleID, reason string) error {
	return s.finalize(ctx, postID, cycleID, StatusFailed, reason)
}

func (s *Store) finalize(ctx context.Context, postID int64, cycleID, status, reason string) error {
	now := s.now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin outcome tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
UPDATE outcomes SET status = ?, reason = ?, cycle_id = ?, lease_expires_at = NULL, updated_at = ?
WHERE post_id = ?`,
		status, reason, cycleID, now.Format(timeLayout), postID)
	if err != nil {
		return fmt.Errorf("finalize outcome: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalize outcome rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finalize outcome: post %d has no row", postID)
	}

	column := "failed"
	if status == StatusSuccess {
		column = "optimized"
	}
	day := now.Format("2006-01-02")
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO daily_metrics (day, %[1]s) VALUES (?, 1)
ON CONFLICT(day) DO UPDATE SET %[1]s = daily_metrics.%[1]s + 1`, column), day); err != nil {
		return fmt.Errorf("update daily metrics: %w", err)
	}
	return tx.Commit()
}

// ReclaimStale fails processing rows whose lease expired so their posts
// become eligible again. Returns how many rows were reclaimed.
func (s *Store) ReclaimStale(ctx context.Context) (int64, error) {
	now := s.now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx, `
UPDATE outcomes SET status = ?, reason = ?, lease_expires_at = NULL, updated_at = ?
WHERE status = ? AND lease_expires_at IS NOT NULL AND lease_expires_at < ?`,
		StatusFailed, "data: optimization lease expired", now, StatusProcessing, now)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale outcomes: %w", err)
	}
	return res.RowsAffected()
}

// FilterCandidates drops post IDs that are already optimized or are
// leased by a live run. Input order is preserved.
func (s *Store) FilterCandidates(ctx context.Context, postIDs []int64) ([]int64, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	blocked := make(map[int64]struct{})
	rows, err := s.db.QueryContext(ctx, `
SELECT post_id FROM outcomes
WHERE status = ? OR (status = ? AND lease_expires_at IS NOT NULL AND lease_expires_at >= ?)`,
		StatusSuccess, StatusProcessing, s.now().UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("query blocked posts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan blocked post: %w", err)
		}
		blocked[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	eligible := make([]int64, 0, len(postIDs))
	for _, id := range postIDs {
		if _, skip := blocked[id]; !skip {
			eligible = append(eligible, id)
		}
	}
	return eligible, nil
}

// Recent returns the newest outcomes, most recently updated first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Outcome, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT post_id, post_title, status, reason, cycle_id, attempts, updated_at
FROM outcomes ORDER BY updated_at DESC, post_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var (
			o         Outcome
			updatedAt string
		)
		if err := rows.Scan(&o.PostID, &o.PostTitle, &o.Status, &o.Reason, &o.CycleID, &o.Attempts, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if parsed, parseErr := time.Parse(timeLayout, updatedAt); parseErr == nil {
			o.UpdatedAt = parsed
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Metrics returns the daily rollup for the most recent days.
func (s *Store) Metrics(ctx context.Context, days int) ([]DailyMetric, error) {
	if days <= 0 {
		days = 7
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT day, optimized, failed FROM daily_metrics ORDER BY day DESC LIMIT ?", days)
	if err != nil {
		return nil, fmt.Errorf("query daily metrics: %w", err)
	}
	defer rows.Close()

	var metrics []DailyMetric
	for rows.Next() {
		var m DailyMetric
		if err := rows.Scan(&m.Day, &m.Optimized, &m.Failed); err != nil {
			return nil, fmt.Errorf("scan daily metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// Summarize aggregates totals plus today's counts.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var summary Summary
	err := s.db.QueryRowContext(ctx, `
SELECT
    COUNT(CASE WHEN status = 'success' THEN 1 END),
    COUNT(CASE WHEN status = 'failed' THEN 1 END),
    COUNT(CASE WHEN status = 'processing' THEN 1 END)
FROM outcomes`).Scan(&summary.TotalOptimized, &summary.TotalFailed, &summary.Processing)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize outcomes: %w", err)
	}

	day := s.now().UTC().Format("2006-01-02")
	err = s.db.QueryRowContext(ctx,
		"SELECT optimized, failed FROM daily_metrics WHERE day = ?", day,
	).Scan(&summary.OptimizedToday, &summary.FailedToday)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Summary{}, fmt.Errorf("summarize daily metrics: %w", err)
	}
	return summary, nil
}
