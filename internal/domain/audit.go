package domain

import "time"

// AuditAction is the verb recorded in an audit entry.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
	AuditLogin  AuditAction = "LOGIN"
	AuditLogout AuditAction = "LOGOUT"
	AuditSend   AuditAction = "SEND"
)

// Audit resource names. These are the entity type names stamped on entries;
// filters compare them verbatim.
const (
	ResourceUser         = "USER"
	ResourceCustomer     = "CUSTOMER"
	ResourceBilling      = "BILLING"
	ResourceNotification = "NOTIFICATION"
	ResourceAuth         = "AUTH"
)

// AuditEntry is one append-only activity record. Entries are never mutated
// or deleted individually; the store evicts the oldest ones when the
// retention cap is exceeded.
type AuditEntry struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	UserName   string      `json:"userName"`
	Action     AuditAction `json:"action"`
	Resource   string      `json:"resource"`
	ResourceID string      `json:"resourceId,omitempty"`
	Details    string      `json:"details"`
	Timestamp  time.Time   `json:"timestamp"`
}
