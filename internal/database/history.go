package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/seoscan/internal/model"
)

// DBFileName is the name of the history database inside the data dir.
const DBFileName = "seoscan.db"

// timestampLayout is fixed width so that text order is time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

var (
	// ErrRunNotFound is returned when no run has the requested id.
	ErrRunNotFound = errors.New("run not found")

	// ErrDatabaseNotFound is returned by Open when the database does not
	// exist and CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("history database not found")
)

// HistoryDB stores audit runs.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		target TEXT NOT NULL,
		base_url TEXT,
		timestamp TEXT NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		disabled INTEGER NOT NULL DEFAULT 0,
		suppressed INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		stats_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);

	CREATE TABLE IF NOT EXISTS issues (
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		rule_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		relative_path TEXT NOT NULL,
		issue_json TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_issues_fingerprint ON issues(fingerprint);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores result and its issues in one transaction. A result
// without a RunID gets a new UUID, which is written back and returned.
func (h *HistoryDB) SaveRun(ctx context.Context, result *model.AuditResult) (string, error) {
	if result.RunID == "" {
		result.RunID = uuid.NewString()
	}

	statsJSON, err := json.Marshal(result.Stats)
	if err != nil {
		return "", fmt.Errorf("failed to serialize stats: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (run_id, target, base_url, timestamp, duration_ns, disabled, suppressed, error, stats_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Target,
		result.BaseURL,
		formatTimestamp(result.DateScanned),
		int64(result.Duration),
		result.Disabled,
		result.Suppressed,
		result.Error,
		string(statsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO issues (run_id, position, fingerprint, rule_id, severity, relative_path, issue_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare issue insert: %w", err)
	}
	defer stmt.Close()

	for i, issue := range result.Issues {
		issueJSON, err := json.Marshal(issue)
		if err != nil {
			return "", fmt.Errorf("failed to serialize issue: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			result.RunID, i, issue.Fingerprint, issue.RuleID,
			issue.Severity.String(), issue.RelativePath, string(issueJSON),
		); err != nil {
			return "", fmt.Errorf("failed to save issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return result.RunID, nil
}

// RunMetadata summarizes a stored run without its issues.
type RunMetadata struct {
	RunID     string
	Target    string
	BaseURL   string
	Timestamp time.Time
	Stats     model.Stats
}

// ListTargets returns every output directory with at least one run.
func (h *HistoryDB) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT DISTINCT target FROM runs ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// ListRuns returns the runs of target, newest first.
func (h *HistoryDB) ListRuns(ctx context.Context, target string) ([]RunMetadata, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT run_id, target, base_url, timestamp, stats_json
	FROM runs
	WHERE target = ?
	ORDER BY timestamp DESC, id DESC`, target)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var (
			meta      RunMetadata
			baseURL   sql.NullString
			timestamp string
			statsJSON string
		)
		if err := rows.Scan(&meta.RunID, &meta.Target, &baseURL, &timestamp, &statsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		meta.BaseURL = baseURL.String
		meta.Timestamp = parseTimestamp(timestamp)
		if err := json.Unmarshal([]byte(statsJSON), &meta.Stats); err != nil {
			meta.Stats = model.NewStats(nil, nil)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// LatestRuns returns up to n complete runs of target, newest first.
func (h *HistoryDB) LatestRuns(ctx context.Context, target string, n int) ([]*model.AuditResult, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT run_id FROM runs
	WHERE target = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT ?`, target, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest runs: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	results := make([]*model.AuditResult, 0, len(ids))
	for _, id := range ids {
		result, err := h.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// GetRun loads one run with its issues in their original order.
func (h *HistoryDB) GetRun(ctx context.Context, runID string) (*model.AuditResult, error) {
	var (
		result    model.AuditResult
		baseURL   sql.NullString
		timestamp string
		duration  int64
		errText   sql.NullString
		statsJSON string
	)
	err := h.db.QueryRowContext(ctx, `
	SELECT run_id, target, base_url, timestamp, duration_ns, disabled, suppressed, error, stats_json
	FROM runs WHERE run_id = ?`, runID).Scan(
		&result.RunID, &result.Target, &baseURL, &timestamp, &duration,
		&result.Disabled, &result.Suppressed, &errText, &statsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	result.BaseURL = baseURL.String
	result.Error = errText.String
	result.DateScanned = parseTimestamp(timestamp)
	result.Duration = time.Duration(duration)
	if err := json.Unmarshal([]byte(statsJSON), &result.Stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats: %w", err)
	}

	rows, err := h.db.QueryContext(ctx, `
	SELECT issue_json FROM issues WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get issues: %w", err)
	}
	defer rows.Close()

	result.Issues = []model.Issue{}
	for rows.Next() {
		var issueJSON string
		if err := rows.Scan(&issueJSON); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		var issue model.Issue
		if err := json.Unmarshal([]byte(issueJSON), &issue); err != nil {
			continue
		}
		result.Issues = append(result.Issues, issue)
	}
	return &result, rows.Err()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp returns the zero time for values it cannot read.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
