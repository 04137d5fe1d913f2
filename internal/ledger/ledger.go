package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"corpusprep/internal/config"
	"corpusprep/internal/model"
	"github.com/google/uuid"
)

// FileName is the name of the database file inside the ledger directory.
const FileName = "corpusprep.db"

// ErrRunNotFound is returned when a run id is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

// Ledger is a SQLite-backed run history. It is safe for concurrent use.
type Ledger struct {
	db     *sql.DB
	dbPath string
}

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID         string          `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at,omitzero"`
	InputDir   string          `json:"input_dir"`
	OutputDir  string          `json:"output_dir"`
	Config     json.RawMessage `json:"config,omitempty"`
	Status     model.RunStatus `json:"status"`
}

// Open opens the ledger in dir, creating the directory, the database
// file and the schema as needed.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	dbPath := filepath.Join(dir, FileName)

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// SQLite only supports one writer; stage workers share one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	l := &Ledger{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := l.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return l, nil
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.dbPath
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		input_dir TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		config_json TEXT,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		stage TEXT NOT NULL,
		file TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT,
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
	CREATE INDEX IF NOT EXISTS idx_events_outcome ON events(outcome);
	`
	_, err := l.db.ExecContext(context.Background(), schema)
	return err
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// StartRun inserts a running row for a new run of cfg and returns its id.
func (l *Ledger) StartRun(ctx context.Context, cfg config.Config) (string, error) {
	return l.StartRunWithID(ctx, NewRunID(), cfg)
}

// StartRunWithID is StartRun with a caller-chosen id.
func (l *Ledger) StartRunWithID(ctx context.Context, id string, cfg config.Config) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to serialize config: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, input_dir, output_dir, config_json, status)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		id,
		formatTime(time.Now()),
		cfg.Paths.Input,
		cfg.Paths.Output,
		string(cfgJSON),
		string(model.RunRunning),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// FinishRun stores the final status of a run.
func (l *Ledger) FinishRun(ctx context.Context, id string, status model.RunStatus) error {
	res, err := l.db.ExecContext(ctx, `
	UPDATE runs SET finished_at = ?, status = ? WHERE id = ?
	`, formatTime(time.Now()), string(status), id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// Record appends ev to the events of run id.
func (l *Ledger) Record(ctx context.Context, id string, ev model.Event) error {
	at := ev.Time
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `
	INSERT INTO events (run_id, stage, file, outcome, detail, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		id,
		string(ev.Stage),
		ev.File,
		string(ev.Outcome),
		ev.Detail,
		formatTime(at),
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// Run returns the record of run id.
func (l *Ledger) Run(ctx context.Context, id string) (RunRecord, error) {
	row := l.db.QueryRowContext(ctx, `
	SELECT id, started_at, finished_at, input_dir, output_dir, config_json, status
	FROM runs WHERE id = ?
	`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return rec, err
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, started_at, finished_at, input_dir, output_dir, config_json, status
	FROM runs ORDER BY started_at DESC, rowid DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// Events returns the events of run id in the order they were recorded.
func (l *Ledger) Events(ctx context.Context, id string) ([]model.Event, error) {
	rows, err := l.db.QueryContext(ctx, `
	SELECT stage, file, outcome, detail, recorded_at
	FROM events WHERE run_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var (
			ev                 model.Event
			stage, outcome, at string
			detail             sql.NullString
		)
		if err := rows.Scan(&stage, &ev.File, &outcome, &detail, &at); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Stage = model.Stage(stage)
		ev.Outcome = model.Outcome(outcome)
		ev.Detail = detail.String
		ev.Time = parseTime(at)
		events = append(events, ev)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec               RunRecord
		started, status   string
		finished, cfgJSON sql.NullString
	)
	err := row.Scan(&rec.ID, &started, &finished, &rec.InputDir, &rec.OutputDir, &cfgJSON, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("failed to scan run: %w", err)
	}
	rec.StartedAt = parseTime(started)
	if finished.Valid {
		rec.FinishedAt = parseTime(finished.String)
	}
	if cfgJSON.Valid && cfgJSON.String != "" {
		rec.Config = json.RawMessage(cfgJSON.String)
	}
	rec.Status = model.RunStatus(status)
	return rec, nil
}

// timeLayout is fixed width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
