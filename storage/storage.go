// Package storage persists graph documents to PostgreSQL: a DB/querier
// interface split (so tests can substitute pgxmock for a real pool), a
// timeout-wrapped-query style, and a soft-delete-then-undelete-on-upsert
// convention — simplified to a single table since this module's document
// shape has no separate node-library join to maintain.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"workflow-core/document"
)

// DB abstracts the pool operations the storage layer uses. Satisfied by
// *pgxpool.Pool in production and pgxmock.PgxPoolIface in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Storage defines graph document persistence, decoupled from the
// concrete database so callers can swap in a test double.
type Storage interface {
	GetGraph(ctx context.Context, id uuid.UUID) (*GraphRecord, error)
	SaveGraph(ctx context.Context, rec *GraphRecord) error
	DeleteGraph(ctx context.Context, id uuid.UUID) error
}

// GraphRecord pairs a persisted document.Document with its storage-level
// bookkeeping fields.
type GraphRecord struct {
	ID         uuid.UUID
	Name       string
	Doc        document.Document
	CreatedAt  time.Time
	ModifiedAt time.Time
}

type pgStorage struct {
	db DB
}

// NewInstance builds a PostgreSQL-backed Storage. Returns an error if db
// is nil.
func NewInstance(db *pgxpool.Pool) (Storage, error) {
	if db == nil {
		return nil, fmt.Errorf("storage: db connection cannot be nil")
	}
	return &pgStorage{db: db}, nil
}

// GetGraph retrieves a graph document by id. Returns pgx.ErrNoRows if the
// id is unknown or soft-deleted.
func (s *pgStorage) GetGraph(ctx context.Context, id uuid.UUID) (*GraphRecord, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rec := &GraphRecord{ID: id}
	var docJSON []byte
	err := s.db.QueryRow(timeoutCtx, `
        SELECT name, dag_data, created_at, modified_at
        FROM graphs
        WHERE id = $1 AND deleted_at IS NULL`,
		id).Scan(&rec.Name, &docJSON, &rec.CreatedAt, &rec.ModifiedAt)
	if err != nil {
		return nil, err // pgx.ErrNoRows if not found
	}

	if err := json.Unmarshal(docJSON, &rec.Doc); err != nil {
		return nil, fmt.Errorf("storage: unmarshal dag_data: %w", err)
	}
	return rec, nil
}

// SaveGraph upserts rec, clearing any prior soft-deletion — saving a
// graph again undeletes it.
func (s *pgStorage) SaveGraph(ctx context.Context, rec *GraphRecord) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docJSON, err := json.Marshal(rec.Doc)
	if err != nil {
		return fmt.Errorf("storage: marshal dag_data: %w", err)
	}

	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.ModifiedAt = now

	_, err = s.db.Exec(timeoutCtx, `
        INSERT INTO graphs (id, name, dag_data, created_at, modified_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            dag_data = EXCLUDED.dag_data,
            modified_at = EXCLUDED.modified_at,
            deleted_at = NULL;`,
		rec.ID, rec.Name, docJSON, rec.CreatedAt, rec.ModifiedAt)
	if err != nil {
		return fmt.Errorf("storage: upsert graph: %w", err)
	}
	return nil
}

// DeleteGraph soft-deletes a graph. Returns pgx.ErrNoRows if id is
// unknown.
func (s *pgStorage) DeleteGraph(ctx context.Context, id uuid.UUID) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := s.db.Exec(timeoutCtx, `
        UPDATE graphs
        SET deleted_at = $1, modified_at = $1
        WHERE id = $2 AND deleted_at IS NULL;`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("storage: soft delete graph: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
