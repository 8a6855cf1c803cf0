package role

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Well-known system role names seeded by DefaultCatalog.
const (
	RoleSuperAdmin    = "super_admin"
	RolePlatformAdmin = "platform_admin"
	RoleTenantAdmin   = "tenant_admin"
	RoleManager       = "manager"
	RoleAccountant    = "accountant"
	RoleTeamLead      = "team_lead"
	RoleMember        = "member"
	RoleViewer        = "viewer"
	RoleGuest         = "guest"
)

// DefaultCatalog returns the nine seeded system roles, from super_admin at
// hierarchy level 100 down to guest at level 0. System roles cannot be
// deleted or edited at runtime.
func DefaultCatalog() []Role {
	return []Role{
		{
			Name:           RoleSuperAdmin,
			DisplayName:    "Super Administrator",
			Description:    "Unrestricted access to every resource",
			HierarchyLevel: 100,
			Permissions:    []string{"*"},
			IsSystemRole:   true,
			IsAssignable:   false,
		},
		{
			Name:           RolePlatformAdmin,
			DisplayName:    "Platform Administrator",
			Description:    "Operates the platform across tenants",
			HierarchyLevel: 90,
			Permissions:    []string{"tenant:*", "audit_log:*", "api_key:*"},
			InheritsFrom:   RoleTenantAdmin,
			IsSystemRole:   true,
			IsAssignable:   true,
		},
		{
			Name:           RoleTenantAdmin,
			DisplayName:    "Tenant Administrator",
			Description:    "Full control inside one organization",
			HierarchyLevel: 80,
			Permissions:    []string{"billing:*", "settings:*", "role:*", "user:*"},
			InheritsFrom:   RoleManager,
			IsSystemRole:   true,
			IsAssignable:   true,
		},
		{
			Name:           RoleManager,
			DisplayName:    "Manager",
			Description:    "Approves and manages team output",
			HierarchyLevel: 60,
			Permissions:    []string{"invoice:approve", "report:*", "document:*"},
			InheritsFrom:   RoleTeamLead,
			IsSystemRole:   true,
			IsAssignable:   true,
		},
		{
			Name:           RoleAccountant,
			DisplayName:    "Accountant",
			Description:    "Works the full invoicing surface",
			HierarchyLevel: 50,
			Permissions:    []string{"invoice:*", "report:read", "report:export"},
			InheritsFrom:   RoleViewer,
			IsSystemRole:   true,
			IsAssignable:   true,
		},
		{
			Name:           RoleTeamLead,
			DisplayName:    "Team Lead",
			Description:    "Edits team-scoped resources",
			HierarchyLevel: 40,
			Permissions:    []string{"invoice:read:team", "invoice:update:team", "document:update:assigned"},
			InheritsFrom:   RoleMember,
			IsSystemRole:   true,
			IsAssignable:   true,
		},
		{
			Name:           RoleMember,
			DisplayName:    "Member",
			Description:    "Creates and edits own resources",
			HierarchyLevel: 20,
			Permissions:    []string{"invoice:create", "invoice:read:own", "invoice:update:own", "document:create", "document:update:own"},
			InheritsFrom:   RoleViewer,
			IsSystemRole:   true,
			IsAssignable:   true,
		},
		{
			Name:           RoleViewer,
			DisplayName:    "Viewer",
			Description:    "Read-only access to shared resources",
			HierarchyLevel: 10,
			Permissions:    []string{"document:read", "report:read", "settings:read"},
			InheritsFrom:   RoleGuest,
			IsSystemRole:   true,
			IsAssignable:   true,
		},
		{
			Name:           RoleGuest,
			DisplayName:    "Guest",
			Description:    "Minimal unauthenticated-adjacent access",
			HierarchyLevel: 0,
			Permissions:    []string{"document:read:own"},
			IsSystemRole:   true,
			IsAssignable:   true,
		},
	}
}

// catalogFile is the on-disk YAML shape for role catalogs.
type catalogFile struct {
	Roles []Role `yaml:"roles"`
}

// LoadCatalog reads a YAML role catalog. Every role must carry a name;
// hierarchy levels and inheritance are taken as-is, so cycles surface later
// as ErrInheritanceCycle when effective permissions are resolved.
func LoadCatalog(r io.Reader) ([]Role, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("role: decode catalog: %w", err)
	}

	for i, rl := range file.Roles {
		if rl.Name == "" {
			return nil, fmt.Errorf("role: catalog entry %d has no name", i)
		}
	}
	return file.Roles, nil
}
