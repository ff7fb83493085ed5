package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
)

type billingsRepo struct {
	db *sql.DB
}

const billingColumns = `id, customer_id, description, amount_cents, due_date, status, created_at, paid_at`

func (r *billingsRepo) Create(ctx context.Context, b domain.Billing) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO billings (id, customer_id, description, amount_cents, due_date, status, created_at, paid_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.CustomerID, b.Description, b.AmountCents, b.DueDate, string(b.Status), b.CreatedAt, optionalTime(b.PaidAt))
	return mapConflict(err)
}

func (r *billingsRepo) GetByID(ctx context.Context, id string) (domain.Billing, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+billingColumns+` FROM billings WHERE id = ?`, id)
	return scanBilling(row)
}

func (r *billingsRepo) List(ctx context.Context) ([]domain.Billing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+billingColumns+` FROM billings ORDER BY due_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectBillings(rows)
}

func (r *billingsRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Billing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+billingColumns+` FROM billings WHERE customer_id = ? ORDER BY due_date ASC, id ASC`,
		customerID)
	if err != nil {
		return nil, err
	}
	return collectBillings(rows)
}

func (r *billingsRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE billings SET status = ?, paid_at = ? WHERE id = ?`,
		string(domain.BillingPaid), paidAt, id))
}

func scanBilling(row rowScanner) (domain.Billing, error) {
	var (
		b      domain.Billing
		status string
		paidAt sql.NullTime
	)
	err := row.Scan(&b.ID, &b.CustomerID, &b.Description, &b.AmountCents, &b.DueDate, &status, &b.CreatedAt, &paidAt)
	if err != nil {
		return domain.Billing{}, mapNotFound(err)
	}
	b.Status = domain.BillingStatus(status)
	if paidAt.Valid {
		t := paidAt.Time
		b.PaidAt = &t
	}
	return b, nil
}

func collectBillings(rows *sql.Rows) ([]domain.Billing, error) {
	defer rows.Close()

	out := []domain.Billing{}
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
