package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vGazzana/delivery-io/auth"
)

func TestUserRoleIsValid(t *testing.T) {
	tests := []struct {
		name     string
		role     auth.UserRole
		expected bool
	}{
		{name: "admin", role: auth.RoleAdmin, expected: true},
		{name: "staff", role: auth.RoleStaff, expected: true},
		{name: "courier", role: auth.RoleCourier, expected: true},
		{name: "unknown role", role: auth.UserRole("superuser"), expected: false},
		{name: "empty role", role: auth.UserRole(""), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.IsValid())
		})
	}
}

func TestUserRoleIsAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     auth.UserRole
		minRole  auth.UserRole
		expected bool
	}{
		{name: "admin over courier", role: auth.RoleAdmin, minRole: auth.RoleCourier, expected: true},
		{name: "admin over staff", role: auth.RoleAdmin, minRole: auth.RoleStaff, expected: true},
		{name: "staff at staff", role: auth.RoleStaff, minRole: auth.RoleStaff, expected: true},
		{name: "courier under staff", role: auth.RoleCourier, minRole: auth.RoleStaff, expected: false},
		{name: "unknown role", role: auth.UserRole("superuser"), minRole: auth.RoleCourier, expected: false},
		{name: "unknown minimum", role: auth.RoleAdmin, minRole: auth.UserRole("superuser"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.IsAtLeast(tt.minRole))
		})
	}
}

func TestParseRole(t *testing.T) {
	role, ok := auth.ParseRole("courier")
	assert.True(t, ok)
	assert.Equal(t, auth.RoleCourier, role)

	_, ok = auth.ParseRole("root")
	assert.False(t, ok)
}

func TestGetAllRoles(t *testing.T) {
	roles := auth.GetAllRoles()
	assert.Len(t, roles, 3)
	for _, role := range roles {
		assert.True(t, role.IsValid())
	}
}
