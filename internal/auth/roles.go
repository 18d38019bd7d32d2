// Package auth - Role hierarchy and the permission policy
package auth

import "github.com/kassets/kassets/internal/models"

// Action represents a permission action
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionManage Action = "manage" // user and company administration
	ActionImport Action = "import"
)

// roleRank orders roles strongest first. Unknown roles rank below viewer.
var roleRank = map[string]int{
	models.RoleSuperAdmin:  5,
	models.RoleMasterAdmin: 4,
	models.RoleAdmin:       3,
	models.RoleEditor:      2,
	models.RoleViewer:      1,
}

// Rank returns the numeric strength of a role, 0 for unknown roles.
func Rank(role string) int {
	return roleRank[role]
}

// AtLeast reports whether role is at least as strong as threshold.
func AtLeast(role, threshold string) bool {
	return Rank(role) >= Rank(threshold) && Rank(role) > 0
}

// minimumRoleFor maps each action to the weakest role allowed to perform it.
var minimumRoleFor = map[Action]string{
	ActionView:   models.RoleViewer,
	ActionEdit:   models.RoleEditor,
	ActionManage: models.RoleAdmin,
	ActionImport: models.RoleMasterAdmin,
}

// Can reports whether a role may perform an action. This is the single
// permission predicate; handlers never compare role strings directly.
func Can(role string, action Action) bool {
	min, ok := minimumRoleFor[action]
	if !ok {
		return false
	}
	return AtLeast(role, min)
}

// CanActOn reports whether an actor may perform an action against a target
// user of the given role. Acting on a peer or stronger role is refused, so
// an admin cannot edit or delete a master admin, and nobody below super
// admin can touch a super admin.
func CanActOn(actorRole, targetRole string, action Action) bool {
	if !Can(actorRole, action) {
		return false
	}
	if actorRole == models.RoleSuperAdmin {
		return true
	}
	return Rank(actorRole) > Rank(targetRole)
}
