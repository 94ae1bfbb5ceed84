package production

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

const registrySchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	machine_id  TEXT NOT NULL,
	version     TEXT NOT NULL,
	config_json TEXT NOT NULL,
	input_json  TEXT NOT NULL,
	state       TEXT NOT NULL,
	status      TEXT NOT NULL,
	steps       INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_machine_created ON runs (machine_id, created_at);
CREATE TABLE IF NOT EXISTS history_entries (
	run_id     TEXT NOT NULL REFERENCES runs (run_id) ON DELETE CASCADE,
	step       INTEGER NOT NULL,
	state      TEXT NOT NULL,
	read_json  TEXT NOT NULL,
	matched    INTEGER NOT NULL,
	tapes_json TEXT NOT NULL,
	heads_json TEXT NOT NULL,
	PRIMARY KEY (run_id, step)
);
`

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// SQLiteRegistry is a core.Registry backed by a SQLite database.
type SQLiteRegistry struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLiteRegistry opens (or creates) the registry at path. Use ":memory:"
// for a private in-process database.
func OpenSQLiteRegistry(path string) (*SQLiteRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("registry path is required")
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection: every new connection to :memory: is a new database.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(registrySchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRegistry{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (r *SQLiteRegistry) Close() error {
	if r == nil || r.sqlDB == nil {
		return nil
	}
	return r.sqlDB.Close()
}

// Register stores the snapshot and its history in one transaction.
func (r *SQLiteRegistry) Register(ctx context.Context, snapshot core.RunSnapshot) error {
	if snapshot.RunID == "" {
		return core.ErrMissingRun
	}
	configJSON, err := json.Marshal(snapshot.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	inputJSON, err := json.Marshal(snapshot.Input)
	if err != nil {
		return fmt.Errorf("marshal input: %w", err)
	}

	tx, err := r.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	createdAt := snapshot.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, machine_id, version, config_json, input_json, state, status, steps, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snapshot.RunID, snapshot.MachineID, snapshot.Version, string(configJSON), string(inputJSON),
		string(snapshot.State), snapshot.Status.String(), snapshot.Steps, toMillis(createdAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("run %q: %w", snapshot.RunID, core.ErrExists)
		}
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO history_entries (run_id, step, state, read_json, matched, tapes_json, heads_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range snapshot.History {
		readJSON, err := json.Marshal(entry.Read)
		if err != nil {
			return fmt.Errorf("marshal read: %w", err)
		}
		tapesJSON, err := json.Marshal(entry.Tapes)
		if err != nil {
			return fmt.Errorf("marshal tapes: %w", err)
		}
		headsJSON, err := json.Marshal(entry.Heads)
		if err != nil {
			return fmt.Errorf("marshal heads: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, snapshot.RunID, entry.Step, string(entry.State),
			string(readJSON), entry.Matched, string(tapesJSON), string(headsJSON)); err != nil {
			return fmt.Errorf("insert step %d: %w", entry.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Get loads one run with its full history.
func (r *SQLiteRegistry) Get(ctx context.Context, runID string) (core.RunSnapshot, error) {
	if runID == "" {
		return core.RunSnapshot{}, core.ErrMissingRun
	}
	row := r.sqlDB.QueryRowContext(ctx,
		`SELECT run_id, machine_id, version, config_json, input_json, state, status, steps, created_at
		 FROM runs WHERE run_id = ?`, runID)
	snapshot, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.RunSnapshot{}, fmt.Errorf("run %q: %w", runID, core.ErrNotFound)
		}
		return core.RunSnapshot{}, err
	}
	if err := r.loadHistory(ctx, &snapshot); err != nil {
		return core.RunSnapshot{}, err
	}
	return snapshot, nil
}

// Latest loads the most recently registered run of machineID.
func (r *SQLiteRegistry) Latest(ctx context.Context, machineID string) (core.RunSnapshot, error) {
	var runID string
	err := r.sqlDB.QueryRowContext(ctx,
		`SELECT run_id FROM runs WHERE machine_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		machineID).Scan(&runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.RunSnapshot{}, fmt.Errorf("machine %q: %w", machineID, core.ErrNotFound)
		}
		return core.RunSnapshot{}, fmt.Errorf("query latest run: %w", err)
	}
	return r.Get(ctx, runID)
}

// ListRuns returns run IDs of machineID, newest first.
func (r *SQLiteRegistry) ListRuns(ctx context.Context, machineID string) ([]string, error) {
	return r.queryStrings(ctx,
		`SELECT run_id FROM runs WHERE machine_id = ? ORDER BY created_at DESC, rowid DESC`, machineID)
}

// ListMachines returns every machine ID with at least one run, sorted.
func (r *SQLiteRegistry) ListMachines(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `SELECT DISTINCT machine_id FROM runs ORDER BY machine_id`)
}

func (r *SQLiteRegistry) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanRun(row *sql.Row) (core.RunSnapshot, error) {
	var (
		snapshot   core.RunSnapshot
		configJSON string
		inputJSON  string
		state      string
		status     string
		createdAt  int64
	)
	if err := row.Scan(&snapshot.RunID, &snapshot.MachineID, &snapshot.Version, &configJSON,
		&inputJSON, &state, &status, &snapshot.Steps, &createdAt); err != nil {
		return snapshot, err
	}
	if err := json.Unmarshal([]byte(configJSON), &snapshot.Config); err != nil {
		return snapshot, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := json.Unmarshal([]byte(inputJSON), &snapshot.Input); err != nil {
		return snapshot, fmt.Errorf("unmarshal input: %w", err)
	}
	if err := snapshot.Status.UnmarshalText([]byte(status)); err != nil {
		return snapshot, err
	}
	snapshot.State = primitives.State(state)
	snapshot.Timestamp = fromMillis(createdAt)
	return snapshot, nil
}

func (r *SQLiteRegistry) loadHistory(ctx context.Context, snapshot *core.RunSnapshot) error {
	rows, err := r.sqlDB.QueryContext(ctx,
		`SELECT step, state, read_json, matched, tapes_json, heads_json
		 FROM history_entries WHERE run_id = ? ORDER BY step`, snapshot.RunID)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry                          core.HistoryEntry
			state                          string
			readJSON, tapesJSON, headsJSON string
		)
		if err := rows.Scan(&entry.Step, &state, &readJSON, &entry.Matched, &tapesJSON, &headsJSON); err != nil {
			return fmt.Errorf("scan history: %w", err)
		}
		entry.State = primitives.State(state)
		if err := json.Unmarshal([]byte(readJSON), &entry.Read); err != nil {
			return fmt.Errorf("unmarshal read: %w", err)
		}
		if err := json.Unmarshal([]byte(tapesJSON), &entry.Tapes); err != nil {
			return fmt.Errorf("unmarshal tapes: %w", err)
		}
		if err := json.Unmarshal([]byte(headsJSON), &entry.Heads); err != nil {
			return fmt.Errorf("unmarshal heads: %w", err)
		}
		snapshot.History = append(snapshot.History, entry)
	}
	return rows.Err()
}

func isConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
