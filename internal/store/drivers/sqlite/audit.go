package sqlite

import (
	"context"
	"database/sql"

	"github.com/cobrexhq/cobrex/internal/domain"
)

type auditRepo struct {
	db  *sql.DB
	cap int
}

const auditColumns = `id, user_id, user_name, action, resource, resource_id, details, timestamp`

// Append inserts the entry and prunes anything beyond the retention cap in
// the same transaction. Eviction goes by seq (insertion order), never by
// the timestamp column.
func (r *auditRepo) Append(ctx context.Context, e domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO audit_log (id, user_id, user_name, action, resource, resource_id, details, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.UserName, string(e.Action), e.Resource, e.ResourceID, e.Details, e.Timestamp)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM audit_log
		 WHERE seq NOT IN (SELECT seq FROM audit_log ORDER BY seq DESC LIMIT ?)`,
		r.cap)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *auditRepo) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audit_log ORDER BY seq DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (r *auditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audit_log WHERE user_id = ? ORDER BY seq DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (r *auditRepo) ListByResource(ctx context.Context, resource, resourceID string, limit int) ([]domain.AuditEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE resource = ?`
	args := []any{resource}
	if resourceID != "" {
		query += ` AND resource_id = ?`
		args = append(args, resourceID)
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (r *auditRepo) Search(ctx context.Context, query string, limit int) ([]domain.AuditEntry, error) {
	// LIKE is case-insensitive for ASCII only, so lower both sides in Go
	// and SQL to keep behavior aligned with the in-memory driver.
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audit_log
		 WHERE LOWER(user_name) LIKE LOWER(?)
		    OR LOWER(action)    LIKE LOWER(?)
		    OR LOWER(resource)  LIKE LOWER(?)
		    OR LOWER(details)   LIKE LOWER(?)
		 ORDER BY seq DESC LIMIT ?`,
		pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (r *auditRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&n)
	return n, err
}

func collectEntries(rows *sql.Rows) ([]domain.AuditEntry, error) {
	defer rows.Close()

	out := []domain.AuditEntry{}
	for rows.Next() {
		var (
			e      domain.AuditEntry
			action string
		)
		err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &action, &e.Resource, &e.ResourceID, &e.Details, &e.Timestamp)
		if err != nil {
			return nil, err
		}
		e.Action = domain.AuditAction(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
