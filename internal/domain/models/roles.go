// internal/domain/models/roles.go
package models

// Canonical role identifiers stored in User.Role.
const (
	RoleAdmin          = "admin"
	RoleAppAdmin       = "app-admin"
	RoleInstituteAdmin = "institute-admin"
	RoleTeacher        = "teacher"
	RoleStudent        = "student"
)

// Roles is the full set of allowed role identifiers.
var Roles = []string{
	RoleAdmin,
	RoleAppAdmin,
	RoleInstituteAdmin,
	RoleTeacher,
	RoleStudent,
}

// AdminRoles may approve accounts and promote classes.
var AdminRoles = []string{RoleAdmin, RoleAppAdmin, RoleInstituteAdmin}

// PlatformRoles manage institute registrations across tenants.
var PlatformRoles = []string{RoleAdmin, RoleAppAdmin}

// RegisterableRoles are the roles a self-service registration may request.
var RegisterableRoles = []string{RoleInstituteAdmin, RoleTeacher, RoleStudent}

// IsValidRole reports whether r is one of Roles.
func IsValidRole(r string) bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}
