// Package sqlite is the durable store driver. It fills the durability gap
// the in-memory driver leaves open while keeping the same per-operation
// atomicity and audit retention semantics.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cobrexhq/cobrex/internal/store"

	_ "modernc.org/sqlite"
)

// DefaultAuditCap mirrors the in-memory driver's retention cap.
const DefaultAuditCap = 1000

type Store struct {
	db       *sql.DB
	auditCap int
}

// NewStore opens (or creates) the database at dsn. auditCap <= 0 selects
// DefaultAuditCap. Call ApplyMigrations before first use.
func NewStore(dsn string, auditCap int) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs (billings -> customers cascade).
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	if auditCap <= 0 {
		auditCap = DefaultAuditCap
	}

	return &Store{db: db, auditCap: auditCap}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users         { return &usersRepo{db: s.db} }
func (s *Store) Audit() store.Audit         { return &auditRepo{db: s.db, cap: s.auditCap} }
func (s *Store) Customers() store.Customers { return &customersRepo{db: s.db} }
func (s *Store) Billings() store.Billings   { return &billingsRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConflict(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// affectedOrNotFound converts a zero-row mutation into ErrNotFound.
func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
