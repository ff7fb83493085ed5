package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cobrexhq/cobrex/internal/domain"
)

type customersRepo struct {
	db *sql.DB
}

func (r *customersRepo) Create(ctx context.Context, c domain.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.CreatedAt)
	return mapConflict(err)
}

func (r *customersRepo) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		return domain.Customer{}, mapNotFound(err)
	}
	return c, nil
}

func (r *customersRepo) Update(ctx context.Context, id string, upd domain.CustomerUpdate) error {
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
	if len(sets) == 0 {
		return affectedOrNotFound(r.db.ExecContext(ctx, `UPDATE customers SET id = id WHERE id = ?`, id))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE customers SET %s WHERE id = ?`, strings.Join(sets, ", "))
	return affectedOrNotFound(r.db.ExecContext(ctx, query, args...))
}

func (r *customersRepo) Delete(ctx context.Context, id string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM customers WHERE id = ?`, id))
}

func (r *customersRepo) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, created_at FROM customers ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
