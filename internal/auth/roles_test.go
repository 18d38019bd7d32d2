package auth_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/models"
)

func TestAtLeast(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		threshold string
		expected  bool
	}{
		{"super admin tops everyone", models.RoleSuperAdmin, models.RoleMasterAdmin, true},
		{"role meets itself", models.RoleEditor, models.RoleEditor, true},
		{"viewer below editor", models.RoleViewer, models.RoleEditor, false},
		{"admin below master admin", models.RoleAdmin, models.RoleMasterAdmin, false},
		{"unknown role fails", "intern", models.RoleViewer, false},
		{"unknown role fails even against itself", "intern", "intern", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(auth.AtLeast(tt.role, tt.threshold), qt.Equals, tt.expected)
		})
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		action   auth.Action
		expected bool
	}{
		{"viewer can view", models.RoleViewer, auth.ActionView, true},
		{"viewer cannot edit", models.RoleViewer, auth.ActionEdit, false},
		{"editor can edit", models.RoleEditor, auth.ActionEdit, true},
		{"editor cannot manage", models.RoleEditor, auth.ActionManage, false},
		{"admin can manage", models.RoleAdmin, auth.ActionManage, true},
		{"admin cannot import", models.RoleAdmin, auth.ActionImport, false},
		{"master admin can import", models.RoleMasterAdmin, auth.ActionImport, true},
		{"super admin can do everything", models.RoleSuperAdmin, auth.ActionImport, true},
		{"unknown action refused", models.RoleSuperAdmin, auth.Action("fly"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(auth.Can(tt.role, tt.action), qt.Equals, tt.expected)
		})
	}
}

func TestCanActOn(t *testing.T) {
	tests := []struct {
		name     string
		actor    string
		target   string
		expected bool
	}{
		{"admin manages editor", models.RoleAdmin, models.RoleEditor, true},
		{"admin cannot manage peer admin", models.RoleAdmin, models.RoleAdmin, false},
		{"admin cannot manage master admin", models.RoleAdmin, models.RoleMasterAdmin, false},
		{"master admin manages admin", models.RoleMasterAdmin, models.RoleAdmin, true},
		{"nobody below super touches super", models.RoleMasterAdmin, models.RoleSuperAdmin, false},
		{"super admin manages super admin", models.RoleSuperAdmin, models.RoleSuperAdmin, true},
		{"editor cannot manage at all", models.RoleEditor, models.RoleViewer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(auth.CanActOn(tt.actor, tt.target, auth.ActionManage), qt.Equals, tt.expected)
		})
	}
}
