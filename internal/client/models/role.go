// Package models defines the records mirrored from the university backend
// and the signed-in user session.
package models

import "strings"

// Role is one of the fixed role tags a user can hold.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
	RoleStudent  Role = "STUDENT"
)

// AllRoles lists the closed role set in display order.
var AllRoles = []Role{RoleAdmin, RoleEmployee, RoleStudent}

// ParseRole maps a backend role string onto the closed set. Unknown values
// report ok=false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleEmployee, RoleStudent:
		return r, true
	}
	return "", false
}

// Roles is the role set held by a session.
type Roles []Role

func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Intersects reports whether at least one of allowed is held.
func (rs Roles) Intersects(allowed []Role) bool {
	for _, a := range allowed {
		if rs.Has(a) {
			return true
		}
	}
	return false
}

func (rs Roles) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
