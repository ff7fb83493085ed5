package domain

// Role is a closed enumeration of staff roles. Using a distinct type keeps
// role strings from drifting: anything not in the table below resolves to
// zero capabilities.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFinanceiro Role = "financeiro"
	RoleSuporte    Role = "suporte"
)

// Roles lists every defined role.
var Roles = []Role{RoleAdmin, RoleFinanceiro, RoleSuporte}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFinanceiro, RoleSuporte:
		return true
	}
	return false
}

// Capability names a feature gate.
type Capability string

const (
	CapViewDashboard       Capability = "view_dashboard"
	CapManageBillings      Capability = "manage_billings"
	CapManageCustomers     Capability = "manage_customers"
	CapViewReports         Capability = "view_reports"
	CapManageNotifications Capability = "manage_notifications"
	CapManageUsers         Capability = "manage_users"
	CapViewAudit           Capability = "view_audit"
	CapManageSettings      Capability = "manage_settings"
)

// Capabilities lists every defined capability.
var Capabilities = []Capability{
	CapViewDashboard,
	CapManageBillings,
	CapManageCustomers,
	CapViewReports,
	CapManageNotifications,
	CapManageUsers,
	CapViewAudit,
	CapManageSettings,
}

// capabilitySet is an explicit capability record for one role. A record per
// role, rather than a map of maps, so adding a capability forces every role
// to take a position on it.
type capabilitySet struct {
	ViewDashboard       bool
	ManageBillings      bool
	ManageCustomers     bool
	ViewReports         bool
	ManageNotifications bool
	ManageUsers         bool
	ViewAudit           bool
	ManageSettings      bool
}

var permissionMatrix = map[Role]capabilitySet{
	RoleAdmin: {
		ViewDashboard:       true,
		ManageBillings:      true,
		ManageCustomers:     true,
		ViewReports:         true,
		ManageNotifications: true,
		ManageUsers:         true,
		ViewAudit:           true,
		ManageSettings:      true,
	},
	RoleFinanceiro: {
		ViewDashboard:       true,
		ManageBillings:      true,
		ManageCustomers:     true,
		ViewReports:         true,
		ManageNotifications: true,
	},
	RoleSuporte: {
		ViewDashboard:   true,
		ManageCustomers: true,
	},
}

// HasPermission answers whether role may exercise cap. It is a pure O(1)
// lookup, total over all inputs: unknown roles and unknown capabilities
// deny. The deny-by-default here is intentional, not a lookup accident.
func HasPermission(role Role, cap Capability) bool {
	set, ok := permissionMatrix[role]
	if !ok {
		return false
	}

	switch cap {
	case CapViewDashboard:
		return set.ViewDashboard
	case CapManageBillings:
		return set.ManageBillings
	case CapManageCustomers:
		return set.ManageCustomers
	case CapViewReports:
		return set.ViewReports
	case CapManageNotifications:
		return set.ManageNotifications
	case CapManageUsers:
		return set.ManageUsers
	case CapViewAudit:
		return set.ViewAudit
	case CapManageSettings:
		return set.ManageSettings
	}
	return false
}
