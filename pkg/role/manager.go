package role

import (
	"fmt"
	"sort"
	"sync"
)

// assignmentKey identifies the role set of one user in one organization.
// An empty OrgID is the global (organization-less) assignment.
type assignmentKey struct {
	UserID string
	OrgID  string
}

// Manager holds the role catalog and user-role assignments. It is safe for
// concurrent use: reads take a shared lock, catalog and assignment mutations
// an exclusive one.
type Manager struct {
	mu          sync.RWMutex
	roles       map[string]Role
	assignments map[assignmentKey]map[string]struct{}
}

// NewManager creates a manager seeded with the given roles.
// Later roles with the same name overwrite earlier ones.
func NewManager(roles ...Role) *Manager {
	m := &Manager{
		roles:       make(map[string]Role, len(roles)),
		assignments: make(map[assignmentKey]map[string]struct{}),
	}
	for _, r := range roles {
		m.roles[r.Name] = r
	}
	return m
}

// Get returns the role registered under the given name.
func (m *Manager) Get(name string) (Role, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[name]
	return r, ok
}

// Roles returns all catalog roles sorted by descending hierarchy level.
func (m *Manager) Roles() []Role {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HierarchyLevel != out[j].HierarchyLevel {
			return out[i].HierarchyLevel > out[j].HierarchyLevel
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CreateCustomRole adds a new assignable, non-system role to the catalog.
// It fails with ErrDuplicateRole if the name is already taken and with
// ErrUnknownRole if the base role does not exist.
func (m *Manager) CreateCustomRole(spec CustomRoleSpec) (Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.roles[spec.Name]; exists {
		return Role{}, fmt.Errorf("%w: %q", ErrDuplicateRole, spec.Name)
	}

	perms := make([]string, 0, len(spec.Permissions))
	perms = append(perms, spec.Permissions...)

	level := 0
	if spec.HierarchyLevel != nil {
		level = *spec.HierarchyLevel
	}

	if spec.BaseRole != "" {
		base, exists := m.roles[spec.BaseRole]
		if !exists {
			return Role{}, fmt.Errorf("%w: base role %q", ErrUnknownRole, spec.BaseRole)
		}
		basePerms, err := m.effectivePermissionsLocked(spec.BaseRole, make(map[string]struct{}), 0)
		if err != nil {
			return Role{}, err
		}
		perms = append(perms, basePerms...)
		if spec.HierarchyLevel == nil {
			level = base.HierarchyLevel - 1
		}
	}

	r := Role{
		Name:           spec.Name,
		DisplayName:    spec.DisplayName,
		Description:    spec.Description,
		HierarchyLevel: level,
		Permissions:    normalize(perms),
		IsAssignable:   true,
	}
	m.roles[spec.Name] = r
	return r, nil
}

// UpdateCustomRole replaces the display metadata and permission set of a
// custom role. System roles are immutable.
func (m *Manager) UpdateCustomRole(name, displayName, description string, permissions []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.roles[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
	if r.IsSystemRole {
		return fmt.Errorf("%w: %q", ErrSystemRole, name)
	}

	r.DisplayName = displayName
	r.Description = description
	r.Permissions = normalize(permissions)
	m.roles[name] = r
	return nil
}

// DeleteCustomRole removes a custom role from the catalog and revokes it
// from every assignment that holds it. System roles cannot be deleted.
func (m *Manager) DeleteCustomRole(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.roles[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
	if r.IsSystemRole {
		return fmt.Errorf("%w: %q", ErrSystemRole, name)
	}

	delete(m.roles, name)
	for key, set := range m.assignments {
		delete(set, name)
		if len(set) == 0 {
			delete(m.assignments, key)
		}
	}
	return nil
}

// EffectivePermissions returns a role's own permissions unioned with its
// parent's effective permissions, recursively. A cycle or excessive depth
// in the inherits_from chain fails with ErrInheritanceCycle.
func (m *Manager) EffectivePermissions(roleName string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, exists := m.roles[roleName]; !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, roleName)
	}
	perms, err := m.effectivePermissionsLocked(roleName, make(map[string]struct{}), 0)
	if err != nil {
		return nil, err
	}
	return normalize(perms), nil
}

// Must be called with at least a read lock held.
func (m *Manager) effectivePermissionsLocked(roleName string, visited map[string]struct{}, depth int) ([]string, error) {
	if depth > MaxInheritanceDepth {
		return nil, fmt.Errorf("%w: depth exceeds %d at %q", ErrInheritanceCycle, MaxInheritanceDepth, roleName)
	}
	if _, seen := visited[roleName]; seen {
		return nil, fmt.Errorf("%w: at %q", ErrInheritanceCycle, roleName)
	}
	visited[roleName] = struct{}{}

	r, exists := m.roles[roleName]
	if !exists {
		// A dangling parent reference grants nothing.
		return nil, nil
	}

	perms := make([]string, 0, len(r.Permissions))
	perms = append(perms, r.Permissions...)

	if r.InheritsFrom != "" {
		parentPerms, err := m.effectivePermissionsLocked(r.InheritsFrom, visited, depth+1)
		if err != nil {
			return nil, err
		}
		perms = append(perms, parentPerms...)
	}
	return perms, nil
}

// IsRoleSuperior reports whether role a sits strictly above role b in the
// hierarchy. Unknown roles are never superior to anything.
func (m *Manager) IsRoleSuperior(a, b string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roleA, okA := m.roles[a]
	roleB, okB := m.roles[b]
	if !okA || !okB {
		return false
	}
	return roleA.HierarchyLevel > roleB.HierarchyLevel
}

// CanAssignRole reports whether the assigner role may delegate the target
// role: the target must be assignable and strictly below the assigner.
func (m *Manager) CanAssignRole(assignerRole, targetRole string) bool {
	m.mu.RLock()
	target, ok := m.roles[targetRole]
	m.mu.RUnlock()

	if !ok || !target.IsAssignable {
		return false
	}
	return m.IsRoleSuperior(assignerRole, targetRole)
}

// AssignableRoles returns all roles the given assigner role may delegate,
// sorted by descending hierarchy level.
func (m *Manager) AssignableRoles(assignerRole string) []Role {
	m.mu.RLock()
	assigner, ok := m.roles[assignerRole]
	if !ok {
		m.mu.RUnlock()
		return nil
	}

	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		if r.IsAssignable && r.HierarchyLevel < assigner.HierarchyLevel {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].HierarchyLevel != out[j].HierarchyLevel {
			return out[i].HierarchyLevel > out[j].HierarchyLevel
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// AssignRole adds a role to the user's assignment set for the organization.
// It is idempotent and returns false only when the role is unknown.
func (m *Manager) AssignRole(userID, roleName, orgID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.roles[roleName]; !exists {
		return false
	}

	key := assignmentKey{UserID: userID, OrgID: orgID}
	set, ok := m.assignments[key]
	if !ok {
		set = make(map[string]struct{})
		m.assignments[key] = set
	}
	set[roleName] = struct{}{}
	return true
}

// RevokeRole removes a role from the user's assignment set. It returns true
// only when the role was present and has been removed.
func (m *Manager) RevokeRole(userID, roleName, orgID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := assignmentKey{UserID: userID, OrgID: orgID}
	set, ok := m.assignments[key]
	if !ok {
		return false
	}
	if _, held := set[roleName]; !held {
		return false
	}

	delete(set, roleName)
	if len(set) == 0 {
		delete(m.assignments, key)
	}
	return true
}

// UserRoles returns the sorted role names assigned to the user in the
// organization. No assignment yields an empty slice.
func (m *Manager) UserRoles(userID, orgID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.assignments[assignmentKey{UserID: userID, OrgID: orgID}]
	if !ok {
		return nil
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// UserPermissions returns the union of effective permissions over all roles
// assigned to the user in the organization. A user with no assignment has
// an empty permission set.
func (m *Manager) UserPermissions(userID, orgID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.assignments[assignmentKey{UserID: userID, OrgID: orgID}]
	if !ok {
		return nil, nil
	}

	var perms []string
	for name := range set {
		rolePerms, err := m.effectivePermissionsLocked(name, make(map[string]struct{}), 0)
		if err != nil {
			return nil, err
		}
		perms = append(perms, rolePerms...)
	}
	return normalize(perms), nil
}

// normalize deduplicates and sorts a permission set for stable output.
func normalize(perms []string) []string {
	if len(perms) == 0 {
		return nil
	}

	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		unique[p] = struct{}{}
	}

	out := make([]string, 0, len(unique))
	for p := range unique {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
