package domain

import "time"

// BillingStatus is the lifecycle state of a billing.
type BillingStatus string

const (
	BillingPending BillingStatus = "pending"
	BillingPaid    BillingStatus = "paid"
	BillingOverdue BillingStatus = "overdue"
)

// Billing is a charge ("cobrança") issued to a customer. AmountCents avoids
// floating point money.
type Billing struct {
	ID          string        `json:"id"`
	CustomerID  string        `json:"customerId"`
	Description string        `json:"description"`
	AmountCents int64         `json:"amountCents"`
	DueDate     time.Time     `json:"dueDate"`
	Status      BillingStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	PaidAt      *time.Time    `json:"paidAt,omitempty"`
}
