package role

// MaxInheritanceDepth bounds the inherits_from chain to keep effective
// permission resolution cheap and to catch runaway catalogs.
const MaxInheritanceDepth = 10

// Role is a named bundle of permissions with a position in the hierarchy.
// System roles are seeded at startup and cannot be edited or deleted at
// runtime; custom roles are created by privileged callers.
type Role struct {
	Name           string   `yaml:"name" json:"name"`
	DisplayName    string   `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Description    string   `yaml:"description,omitempty" json:"description,omitempty"`
	HierarchyLevel int      `yaml:"hierarchy_level" json:"hierarchy_level"`
	Permissions    []string `yaml:"permissions" json:"permissions"`
	InheritsFrom   string   `yaml:"inherits_from,omitempty" json:"inherits_from,omitempty"`
	IsSystemRole   bool     `yaml:"is_system_role,omitempty" json:"is_system_role,omitempty"`
	IsAssignable   bool     `yaml:"is_assignable" json:"is_assignable"`
}

// CustomRoleSpec describes a custom role to create. BaseRole and
// HierarchyLevel are optional: when BaseRole is set, the new role's stored
// permission set is the union of Permissions and the base role's effective
// set, and a nil HierarchyLevel defaults to the base level minus one.
type CustomRoleSpec struct {
	Name           string
	DisplayName    string
	Description    string
	Permissions    []string
	BaseRole       string
	HierarchyLevel *int
}
