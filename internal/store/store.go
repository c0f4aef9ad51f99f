package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"shelfcheck/internal/config"
)

// ErrNotFound indicates no saved state exists for the requested namespace.
var ErrNotFound = errors.New("workflow state not found")

// Store manages workflow state persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// StateInfo describes one saved workflow namespace.
type StateInfo struct {
	Namespace string
	UpdatedAt time.Time
	Current   bool
}

// Health captures diagnostic information about the workflow database.
type Health struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SavedStates      int
	HasCurrent       bool
	IntegrityCheck   bool
	Error            string
}

// Open initializes or connects to the workflow database and verifies the
// schema version.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "workflow.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = FULL",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
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

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveState upserts the serialized state for a namespace. The write is
// durable when the call returns: the process may terminate immediately after.
func (s *Store) SaveState(ctx context.Context, namespace string, payload []byte) error {
	if namespace == "" {
		return errors.New("namespace is empty")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO workflow_states (namespace, payload, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(namespace) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		namespace,
		string(payload),
		now,
	)
	if err != nil {
		return fmt.Errorf("save workflow state %q: %w", namespace, err)
	}
	return nil
}

// LoadState fetches the serialized state for a namespace.
func (s *Store) LoadState(ctx context.Context, namespace string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT payload FROM workflow_states WHERE namespace = ?`,
		namespace,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, namespace)
	}
	if err != nil {
		return nil, fmt.Errorf("load workflow state %q: %w", namespace, err)
	}
	return []byte(payload), nil
}

// SetCurrent marks a namespace as the workflow that resumes by default.
func (s *Store) SetCurrent(ctx context.Context, namespace string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO current_workflow (id, namespace) VALUES (1, ?)
         ON CONFLICT(id) DO UPDATE SET namespace = excluded.namespace`,
		namespace,
	)
	if err != nil {
		return fmt.Errorf("set current workflow: %w", err)
	}
	return nil
}

// Current returns the namespace marked for resumption.
func (s *Store) Current(ctx context.Context) (string, error) {
	var namespace string
	err := s.db.QueryRowContext(ctx, `SELECT namespace FROM current_workflow WHERE id = 1`).Scan(&namespace)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read current workflow: %w", err)
	}
	return namespace, nil
}

// DeleteState removes a saved namespace. Deleting the current namespace also
// clears the resumption pointer via the schema's cascade.
func (s *Store) DeleteState(ctx context.Context, namespace string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workflow_states WHERE namespace = ?`, namespace)
	if err != nil {
		return false, fmt.Errorf("delete workflow state %q: %w", namespace, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListStates returns saved namespaces ordered by most recent update.
func (s *Store) ListStates(ctx context.Context) ([]StateInfo, error) {
	current, err := s.Current(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT namespace, updated_at FROM workflow_states ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list workflow states: %w", err)
	}
	defer rows.Close()

	var infos []StateInfo
	for rows.Next() {
		var info StateInfo
		var updatedRaw string
		if err := rows.Scan(&info.Namespace, &updatedRaw); err != nil {
			return nil, err
		}
		if updated, parseErr := time.Parse(time.RFC3339Nano, updatedRaw); parseErr == nil {
			info.UpdatedAt = updated
		}
		info.Current = info.Namespace == current
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Clear removes every saved state and the resumption pointer.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workflow_states`)
	if err != nil {
		return 0, fmt.Errorf("clear workflow states: %w", err)
	}
	return res.RowsAffected()
}

// CheckHealth returns diagnostic information about the workflow database.
func (s *Store) CheckHealth(ctx context.Context) (Health, error) {
	health := Health{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("workflow database path is unknown")
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat workflow database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("workflow database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping workflow database: %w", err)
	}
	health.DatabaseReadable = true

	if err := s.db.QueryRowContext(connCtx, `SELECT COUNT(*) FROM workflow_states`).Scan(&health.SavedStates); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count workflow states: %w", err)
	}
	if _, err := s.Current(connCtx); err == nil {
		health.HasCurrent = true
	} else if !errors.Is(err, ErrNotFound) {
		health.Error = err.Error()
		return health, err
	}

	var integrityResult string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = integrityResult == "ok"
	return health, nil
}
