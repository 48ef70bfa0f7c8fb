package domain

// Role determines which operations an identity may invoke.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleFreelancer   Role = "FREELANCER"
	RoleOrganization Role = "ORGANIZATION"
	RoleMaintainer   Role = "MAINTAINER"
)

// AllRoles is the closed set of valid roles.
var AllRoles = []Role{RoleAdmin, RoleFreelancer, RoleOrganization, RoleMaintainer}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFreelancer, RoleOrganization, RoleMaintainer:
		return true
	}
	return false
}

// Authorize checks r against an explicit allow-list. There is no role
// hierarchy: ADMIN is denied unless listed. Any role outside the
// allow-list, including unknown roles, yields ErrForbidden.
func Authorize(r Role, allowed ...Role) error {
	for _, a := range allowed {
		if r == a {
			return nil
		}
	}
	return ErrForbidden
}
