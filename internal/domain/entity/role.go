// Package entity contains the core business objects of the project.
package entity

import (
	"slices"
	"strings"
)

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleAdmin has full access, including session administration.
	RoleAdmin Role = "Admin"
	// RoleManager manages teams and their tasks.
	RoleManager Role = "Manager"
	// RoleEmployee is the default role.
	RoleEmployee Role = "Employee"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Authorization policies.
var (
	PolicyAdminOnly      = Roles{RoleAdmin}
	PolicyManagerOrAdmin = Roles{RoleAdmin, RoleManager}
)

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// ParseRole matches s case-insensitively against the known roles.
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleEmployee} {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}

	return "", false
}
