package internal

import "fmt"

// Role is the closed set of user roles. Values match the strings stored in
// users.role and carried in access tokens.
type Role string

const (
	RoleEmployee  Role = "Employee"
	RoleManager   Role = "Manager"
	RoleHR        Role = "HR"
	RoleAdmin     Role = "Admin"
	RoleSuperuser Role = "Superuser"
)

// AllRoles lists every role, lowest privilege first.
var AllRoles = []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin, RoleSuperuser}

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin, RoleSuperuser:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// IsAdministrative reports whether the role bypasses ownership checks.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSuperuser
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// RoleIn reports whether r is one of roles.
func RoleIn(r Role, roles ...Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}
