package domain

import "time"

// Customer is a billable client of the tenant.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomerUpdate is a partial update; nil fields are left untouched.
type CustomerUpdate struct {
	Name  *string
	Email *string
}
