package authroles

import (
	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to roles by simple string membership.
// Precedence is admin over analyst over user; unknown groups fall back to
// the regular user role, the lowest privilege that can still use the portal.
type StaticRoleMapper struct {
	AdminGroup   string
	AnalystGroup string
	UserGroup    string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.AnalystGroup != "" && g == m.AnalystGroup {
			return domainauth.RoleAnalyst
		}
	}
	return domainauth.RoleUser
}
