package quota

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"seopress/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// credentialIDLength is how much of an API key identifies it in the
// ledger. Full keys never touch disk.
const credentialIDLength = 12

// CredentialID derives the ledger identifier for an API key.
func CredentialID(apiKey string) string {
	if len(apiKey) <= credentialIDLength {
		return apiKey
	}
	return apiKey[:credentialIDLength]
}

// KeyUsage reports one credential's consumption for a day.
type KeyUsage struct {
	CredentialID string
	Day          string
	Requests     int
}

// Ledger persists per-credential daily request counts.
type Ledger struct {
	db       *sql.DB
	dailyCap int
	logger   *slog.Logger
	now      func() time.Time
}

// OpenLedger initializes or connects to the quota database at path.
func OpenLedger(path string, dailyCap int, logger *slog.Logger) (*Ledger, error) {
	if dailyCap <= 0 {
		return nil, errors.New("daily cap must be positive")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open quota db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	ledger := &Ledger{
		db:       db,
		dailyCap: dailyCap,
		logger:   logging.NewComponentLogger(logger, "quota"),
		now:      time.Now,
	}
	if err := ledger.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ledger, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// DailyCap returns the configured per-credential daily request cap.
func (l *Ledger) DailyCap() int {
	return l.dailyCap
}

func (l *Ledger) initSchema(ctx context.Context) error {
	var tableExists int
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		tx, err := l.db.BeginTx(ctx, nil)
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
	if err := l.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("quota database has schema version %d, expected %d (delete the database to reset)", version, schemaVersion)
	}
	return nil
}

func (l *Ledger) today() string {
	return l.now().Format("2006-01-02")
}

// CanUse reports whether the credential still has budget today. Read
// failures count as usable so a broken ledger never blocks optimization.
func (l *Ledger) CanUse(ctx context.Context, apiKey string) bool {
	credential := CredentialID(apiKey)
	var (
		day      string
		requests int
	)
	err := l.db.QueryRowContext(ctx,
		"SELECT day, requests FROM gemini_quota WHERE credential_id = ?", credential,
	).Scan(&day, &requests)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return true
	case err != nil:
		l.logger.Warn("quota read failed, allowing request",
			logging.String(logging.FieldCredential, credential),
			logging.Error(err))
		return true
	}
	if day != l.today() {
		return true
	}
	if requests >= l.dailyCap {
		l.logger.Warn("daily quota exhausted",
			logging.String(logging.FieldCredential, credential),
			logging.Int("requests", requests),
			logging.Int("cap", l.dailyCap))
		return false
	}
	return true
}

// RecordUse counts one confirmed request against the credential. A stale
// row from a previous day resets to one.
func (l *Ledger) RecordUse(ctx context.Context, apiKey string) error {
	credential := CredentialID(apiKey)
	_, err := l.db.ExecContext(ctx, `
INSERT INTO gemini_quota (credential_id, day, requests) VALUES (?, ?, 1)
ON CONFLICT(credential_id) DO UPDATE SET
    requests = CASE WHEN gemini_quota.day = excluded.day THEN gemini_quota.requests + 1 ELSE 1 END,
    day = excluded.day`,
		credential, l.today())
	if err != nil {
		return fmt.Errorf("record quota use: %w", err)
	}
	return nil
}

// Usage returns today's consumption for every known credential.
func (l *Ledger) Usage(ctx context.Context) ([]KeyUsage, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT credential_id, day, requests FROM gemini_quota ORDER BY credential_id")
	if err != nil {
		return nil, fmt.Errorf("query quota usage: %w", err)
	}
	defer rows.Close()

	today := l.today()
	var usage []KeyUsage
	for rows.Next() {
		var entry KeyUsage
		if err := rows.Scan(&entry.CredentialID, &entry.Day, &entry.Requests); err != nil {
			return nil, fmt.Errorf("scan quota row: %w", err)
		}
		// A row from a previous day counts as zero until it is touched.
		if entry.Day != today {
			entry.Day = today
			entry.Requests = 0
		}
		usage = append(usage, entry)
	}
	return usage, rows.Err()
}
