package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	mapper := StaticRoleMapper{
		AdminGroup:   "secops-admins",
		AnalystGroup: "secops-analysts",
		UserGroup:    "secops-users",
	}

	tests := []struct {
		name     string
		groups   []string
		expected domainauth.Role
	}{
		{"admin group wins", []string{"other", "secops-admins"}, domainauth.RoleAdmin},
		{"admin beats analyst", []string{"secops-analysts", "secops-admins"}, domainauth.RoleAdmin},
		{"analyst group", []string{"secops-analysts"}, domainauth.RoleAnalyst},
		{"user group", []string{"secops-users"}, domainauth.RoleUser},
		{"unknown groups fall back to user", []string{"something-else"}, domainauth.RoleUser},
		{"no groups", nil, domainauth.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapper.Map(tt.groups))
		})
	}
}

func TestStaticRoleMapper_EmptyConfiguredGroups(t *testing.T) {
	mapper := StaticRoleMapper{}
	// An empty configured group must never match an empty group claim.
	assert.Equal(t, domainauth.RoleUser, mapper.Map([]string{""}))
}
