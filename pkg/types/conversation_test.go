// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		sender string
		want   Role
	}{
		{"human", RoleUser},
		{"user", RoleUser},
		{"assistant", RoleAssistant},
		{"system", Role("system")},
		{"tool", Role("tool")},
		{"", Role("")},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.sender); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.sender, got, tt.want)
		}
	}
}

func TestRoleLabel(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{Role("system"), "system"},
		{Role(""), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.role.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}
