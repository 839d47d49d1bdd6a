package rbac

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Role is the single permission grouping assigned to an account.
type Role string

// Known roles.
const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleAgronomist Role = "agronomist"
	RoleOperator   Role = "operator"
	RoleViewer     Role = "viewer"
)

// Action names an atomic capability checked by route middleware.
type Action string

// Known actions.
const (
	ActionManageUsers      Action = "manage_users"
	ActionManageRoles      Action = "manage_roles"
	ActionManageFarms      Action = "manage_farms"
	ActionManageFields     Action = "manage_fields"
	ActionManageCrops      Action = "manage_crops"
	ActionManageActivities Action = "manage_activities"
	ActionViewReports      Action = "view_reports"
	ActionViewFarms        Action = "view_farms"
	ActionViewFields       Action = "view_fields"
	ActionViewCrops        Action = "view_crops"
	ActionViewActivities   Action = "view_activities"
	ActionUpdateActivities Action = "update_activities"
	ActionManageMachinery  Action = "manage_machinery"
	ActionViewMachinery    Action = "view_machinery"
	ActionManageStaff      Action = "manage_staff"
	ActionViewStaff        Action = "view_staff"
	ActionManageFinance    Action = "manage_finance"
	ActionViewFinance      Action = "view_finance"
	ActionManageProduction Action = "manage_production"
	ActionViewProduction   Action = "view_production"
)

// ErrUnknownRole indicates a role name outside the closed set.
var ErrUnknownRole = errors.New("rbac: unknown role")

// Roles lists every known role in seniority order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleAgronomist, RoleOperator, RoleViewer}
}

// ParseRole converts a role name into a Role.
func ParseRole(name string) (Role, error) {
	candidate := Role(strings.ToLower(strings.TrimSpace(name)))
	for _, r := range Roles() {
		if r == candidate {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(Roles(), r)
}
