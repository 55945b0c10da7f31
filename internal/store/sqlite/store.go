// Package sqlite provides a SQLite-backed connections store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mkirsch/shipgraph/internal/graph"
	"github.com/mkirsch/shipgraph/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS connections (
    id           TEXT PRIMARY KEY,
    person_a     TEXT NOT NULL,
    person_b     TEXT NOT NULL,
    submitted_by TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'pending',
    created_at   INTEGER NOT NULL,
    updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_connections_status ON connections(status);
`

// Store persists submitted connections in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite connections store and ensures the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Submit records a new claimed connection as pending.
func (s *Store) Submit(ctx context.Context, conn store.Connection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	personA := strings.TrimSpace(conn.PersonA)
	personB := strings.TrimSpace(conn.PersonB)
	if conn.ID == "" {
		return fmt.Errorf("connection id is required")
	}
	if personA == "" || personB == "" {
		return fmt.Errorf("both person names are required")
	}
	if strings.EqualFold(personA, personB) {
		return fmt.Errorf("a person cannot be connected to themselves")
	}
	status := conn.Status
	if status == "" {
		status = store.StatusPending
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO connections (id, person_a, person_b, submitted_by, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		conn.ID,
		personA,
		personB,
		conn.SubmittedBy,
		string(status),
		toMillis(conn.CreatedAt),
		toMillis(conn.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("submit connection: %w", err)
	}
	return nil
}

// Get returns one connection by ID.
func (s *Store) Get(ctx context.Context, id string) (store.Connection, error) {
	if err := ctx.Err(); err != nil {
		return store.Connection{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, person_a, person_b, submitted_by, status, created_at, updated_at
		 FROM connections WHERE id = ?`,
		id,
	)
	return scanConnection(row)
}

// SetStatus moves a connection through the moderation workflow.
func (s *Store) SetStatus(ctx context.Context, id string, status store.ModerationStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE connections SET status = ?, updated_at = ? WHERE id = ?`,
		string(status),
		toMillis(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListByStatus returns all connections in the given state, oldest first.
func (s *Store) ListByStatus(ctx context.Context, status store.ModerationStatus) ([]store.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, person_a, person_b, submitted_by, status, created_at, updated_at
		 FROM connections WHERE status = ? ORDER BY created_at ASC, id ASC`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	var out []store.Connection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return out, nil
}

// ApprovedEdges returns the approved connections as a flat edge list.
func (s *Store) ApprovedEdges(ctx context.Context) ([]graph.Edge, error) {
	conns, err := s.ListByStatus(ctx, store.StatusApproved)
	if err != nil {
		return nil, err
	}
	edges := make([]graph.Edge, 0, len(conns))
	for _, conn := range conns {
		edges = append(edges, graph.Edge{A: conn.PersonA, B: conn.PersonB})
	}
	return edges, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (store.Connection, error) {
	var conn store.Connection
	var status string
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&conn.ID,
		&conn.PersonA,
		&conn.PersonB,
		&conn.SubmittedBy,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Connection{}, store.ErrNotFound
		}
		return store.Connection{}, fmt.Errorf("scan connection: %w", err)
	}
	conn.Status = store.ModerationStatus(status)
	conn.CreatedAt = fromMillis(createdAt)
	conn.UpdatedAt = fromMillis(updatedAt)
	return conn, nil
}
