package domain

import "errors"

// ErrUnknownRole возвращается, когда строка роли не входит в закрытый набор
var ErrUnknownRole = errors.New("unknown role")

// Role represents the caller's role in the system.
// Closed variant set: adding a role means touching every switch over it,
// not grepping for string comparisons.
type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// ParseRole converts a raw role string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleStaff, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

// IsStaffLevel returns true for roles with unrestricted appointment writes
func (r Role) IsStaffLevel() bool {
	return r == RoleStaff || r == RoleAdmin
}
