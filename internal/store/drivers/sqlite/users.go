package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, name, email, password_hash, role, is_active, created_at, last_login_at`

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, is_active, created_at, last_login_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.IsActive, u.CreatedAt, optionalTime(u.LastLoginAt))
	return mapConflict(err)
}

func (r *usersRepo) Update(ctx context.Context, id string, upd domain.UserUpdate) error {
	sets := []string{}
	args := []any{}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, string(*upd.Role))
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	if len(sets) == 0 {
		// Nothing to change; still report missing rows.
		return affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE users SET id = id WHERE id = ?`, id))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = ?`, strings.Join(sets, ", "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err := mapConflict(err); err != nil {
		return err
	}
	return affectedOrNotFound(res, nil)
}

func (r *usersRepo) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, t, id))
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = ?`, id))
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u         domain.User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt, &lastLogin)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

func optionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
