package permission

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the canonical catalog of permissions and named permission
// groups. It is safe for concurrent use; reads do not block each other.
type Registry struct {
	mu     sync.RWMutex
	perms  map[string]Permission
	groups map[string][]string
}

// NewRegistry creates an empty permission registry.
func NewRegistry() *Registry {
	return &Registry{
		perms:  make(map[string]Permission),
		groups: make(map[string][]string),
	}
}

// Register stores a permission under its canonical name.
// Re-registering the same name overwrites the previous entry.
func (r *Registry) Register(p Permission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perms[p.Name()] = p
}

// Get returns the permission registered under the given canonical name.
func (r *Registry) Get(name string) (Permission, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.perms[name]
	return p, ok
}

// Names returns all registered permission names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.perms))
	for name := range r.perms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterGroup stores a named bundle of permission-name strings, possibly
// wildcarded, for bulk role construction. Re-registering overwrites.
func (r *Registry) RegisterGroup(name string, permissions []string) {
	permsCopy := make([]string, len(permissions))
	copy(permsCopy, permissions)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[name] = permsCopy
}

// ExpandGroup returns the permission names bundled under a group name.
func (r *Registry) ExpandGroup(name string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	perms, ok := r.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}

	out := make([]string, len(perms))
	copy(out, perms)
	return out, nil
}

// DefaultRegistry returns a registry seeded with the standard permission
// catalog, including the sensitive and MFA-gated entries, plus the common
// permission groups.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, p := range defaultCatalog() {
		r.Register(p)
	}

	r.RegisterGroup("invoice.readonly", []string{
		"invoice:read", "invoice:export",
	})
	r.RegisterGroup("invoice.manage", []string{
		"invoice:*",
	})
	r.RegisterGroup("reporting", []string{
		"report:read", "report:create", "report:export",
	})
	r.RegisterGroup("tenant.admin", []string{
		"tenant:*", "billing:*", "settings:*",
	})
	r.RegisterGroup("user.management", []string{
		"user:create", "user:read", "user:update", "user:delete",
		"role:assign", "role:revoke",
	})

	return r
}

func defaultCatalog() []Permission {
	crud := func(res Resource, scopes ...Scope) []Permission {
		actions := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
		perms := make([]Permission, 0, len(actions)*(1+len(scopes)))
		for _, a := range actions {
			perms = append(perms, Permission{Resource: res, Action: a, AuditLevel: AuditStandard})
			for _, s := range scopes {
				perms = append(perms, Permission{Resource: res, Action: a, Scope: s, AuditLevel: AuditStandard})
			}
		}
		return perms
	}

	catalog := crud(ResourceInvoice, ScopeOwn, ScopeTeam)
	catalog = append(catalog, crud(ResourceDocument, ScopeOwn, ScopeAssigned)...)
	catalog = append(catalog, crud(ResourceReport, ScopeOwn)...)
	catalog = append(catalog, crud(ResourceUser)...)

	catalog = append(catalog,
		Permission{Resource: ResourceInvoice, Action: ActionApprove, IsSensitive: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceInvoice, Action: ActionExport, AuditLevel: AuditStandard},
		Permission{Resource: ResourceReport, Action: ActionExport, AuditLevel: AuditStandard},
		Permission{Resource: ResourceDocument, Action: ActionExport, AuditLevel: AuditStandard},

		Permission{Resource: ResourceTenant, Action: ActionRead, AuditLevel: AuditStandard},
		Permission{Resource: ResourceTenant, Action: ActionUpdate, IsSensitive: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceBilling, Action: ActionRead, AuditLevel: AuditStandard},
		Permission{Resource: ResourceBilling, Action: ActionUpdate, IsSensitive: true, RequiresMFA: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceSettings, Action: ActionRead, AuditLevel: AuditNone},
		Permission{Resource: ResourceSettings, Action: ActionUpdate, IsSensitive: true, AuditLevel: AuditDetailed},

		Permission{Resource: ResourceRole, Action: ActionCreate, IsSensitive: true, RequiresMFA: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceRole, Action: ActionRead, AuditLevel: AuditNone},
		Permission{Resource: ResourceRole, Action: ActionUpdate, IsSensitive: true, RequiresMFA: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceRole, Action: ActionDelete, IsSensitive: true, RequiresMFA: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceRole, Action: ActionAssign, IsSensitive: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceRole, Action: ActionRevoke, IsSensitive: true, AuditLevel: AuditDetailed},

		Permission{Resource: ResourceAPIKey, Action: ActionCreate, IsSensitive: true, RequiresMFA: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceAPIKey, Action: ActionRead, IsSensitive: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceAPIKey, Action: ActionDelete, IsSensitive: true, RequiresMFA: true, AuditLevel: AuditDetailed},

		Permission{Resource: ResourceAuditLog, Action: ActionRead, IsSensitive: true, AuditLevel: AuditDetailed},
		Permission{Resource: ResourceAuditLog, Action: ActionExport, IsSensitive: true, RequiresMFA: true, AuditLevel: AuditDetailed},
	)

	return catalog
}
