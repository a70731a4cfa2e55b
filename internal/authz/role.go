package authz

import (
	"fmt"
	"strings"
)

// Role is the authorization tier of the acting identity. The set is closed
// and ordered; RoleGuest is synthetic and never stored on a user record.
type Role int

const (
	RoleGuest Role = iota
	RoleUser
	RoleAdmin
	RoleSuperAdmin
)

var roleNames = map[Role]string{
	RoleGuest:      "guest",
	RoleUser:       "user",
	RoleAdmin:      "admin",
	RoleSuperAdmin: "super_admin",
}

// String returns the canonical lowercase name of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole maps a stored role name back to its Role value. Unknown names
// resolve to RoleGuest so a corrupt record never gains access.
func ParseRole(s string) (Role, error) {
	normalized := strings.TrimSpace(strings.ToLower(s))
	for role, name := range roleNames {
		if name == normalized {
			return role, nil
		}
	}
	return RoleGuest, fmt.Errorf("authz: unknown role %q", s)
}
