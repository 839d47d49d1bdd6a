package rbac

import (
	"slices"
)

// Table is an immutable role to action mapping. The zero value grants nothing.
type Table struct {
	grants map[Role]map[Action]struct{}
}

// NewTable builds a Table from the given mapping. The input is copied, so
// later changes to it do not affect the table.
func NewTable(mapping map[Role][]Action) Table {
	grants := make(map[Role]map[Action]struct{}, len(mapping))
	for role, actions := range mapping {
		set := make(map[Action]struct{}, len(actions))
		for _, a := range actions {
			set[a] = struct{}{}
		}
		grants[role] = set
	}
	return Table{grants: grants}
}

// DefaultTable returns the built-in permission table.
func DefaultTable() Table {
	return NewTable(map[Role][]Action{
		RoleAdmin: {
			ActionManageUsers, ActionManageFarms, ActionManageFields, ActionManageCrops,
			ActionManageActivities, ActionViewReports, ActionManageRoles,
			ActionManageMachinery, ActionManageStaff, ActionManageFinance, ActionManageProduction,
		},
		RoleManager: {
			ActionManageFarms, ActionManageFields, ActionManageCrops,
			ActionManageActivities, ActionViewReports,
			ActionManageMachinery, ActionManageStaff, ActionManageFinance, ActionManageProduction,
		},
		RoleAgronomist: {
			ActionManageCrops, ActionManageActivities, ActionViewReports,
			ActionManageProduction, ActionViewMachinery,
		},
		RoleOperator: {ActionViewActivities, ActionUpdateActivities, ActionViewMachinery},
		RoleViewer: {
			ActionViewFarms, ActionViewFields, ActionViewCrops, ActionViewActivities,
			ActionViewMachinery, ActionViewProduction,
		},
	})
}

// HasPermission reports whether role holds action. Unknown roles and actions
// are denied.
func (t Table) HasPermission(role Role, action Action) bool {
	set, ok := t.grants[role]
	if !ok {
		return false
	}
	_, ok = set[action]
	return ok
}

// Actions returns the sorted actions held by role.
func (t Table) Actions(role Role) []Action {
	set := t.grants[role]
	out := make([]Action, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Roles returns the sorted roles present in the table.
func (t Table) Roles() []Role {
	out := make([]Role, 0, len(t.grants))
	for r := range t.grants {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
