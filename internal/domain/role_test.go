package domain_test

import (
	"testing"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestPermissionMatrix(t *testing.T) {
	// The full 3x8 matrix, spelled out so a diff here is a deliberate
	// permission change and not an accident.
	expect := map[domain.Role]map[domain.Capability]bool{
		domain.RoleAdmin: {
			domain.CapViewDashboard:       true,
			domain.CapManageBillings:      true,
			domain.CapManageCustomers:     true,
			domain.CapViewReports:         true,
			domain.CapManageNotifications: true,
			domain.CapManageUsers:         true,
			domain.CapViewAudit:           true,
			domain.CapManageSettings:      true,
		},
		domain.RoleFinanceiro: {
			domain.CapViewDashboard:       true,
			domain.CapManageBillings:      true,
			domain.CapManageCustomers:     true,
			domain.CapViewReports:         true,
			domain.CapManageNotifications: true,
			domain.CapManageUsers:         false,
			domain.CapViewAudit:           false,
			domain.CapManageSettings:      false,
		},
		domain.RoleSuporte: {
			domain.CapViewDashboard:       true,
			domain.CapManageBillings:      false,
			domain.CapManageCustomers:     true,
			domain.CapViewReports:         false,
			domain.CapManageNotifications: false,
			domain.CapManageUsers:         false,
			domain.CapViewAudit:           false,
			domain.CapManageSettings:      false,
		},
	}

	for role, caps := range expect {
		for cap, want := range caps {
			require.Equal(t, want, domain.HasPermission(role, cap), "%s / %s", role, cap)
		}
	}
}

func TestPermissionDenyByDefault(t *testing.T) {
	require.False(t, domain.HasPermission("gerente", domain.CapViewDashboard))
	require.False(t, domain.HasPermission("", domain.CapViewDashboard))
	require.False(t, domain.HasPermission(domain.RoleAdmin, "fly_to_the_moon"))
	require.False(t, domain.HasPermission("", ""))
}

func TestRoleValid(t *testing.T) {
	for _, r := range domain.Roles {
		require.True(t, r.Valid())
	}
	require.False(t, domain.Role("root").Valid())
	require.False(t, domain.Role("").Valid())
}
