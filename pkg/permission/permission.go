package permission

import (
	"fmt"
	"strings"
)

const (
	// Separator joins the components of a canonical permission name.
	Separator = ":"

	// Wildcard matches any value at a single name component, and as a
	// trailing ":*" suffix matches any remainder of a name.
	Wildcard = "*"
)

// Resource identifies a protected resource type.
type Resource string

const (
	ResourceInvoice  Resource = "invoice"
	ResourceReport   Resource = "report"
	ResourceDocument Resource = "document"
	ResourceTenant   Resource = "tenant"
	ResourceUser     Resource = "user"
	ResourceRole     Resource = "role"
	ResourceAPIKey   Resource = "api_key"
	ResourceBilling  Resource = "billing"
	ResourceAuditLog Resource = "audit_log"
	ResourceSettings Resource = "settings"
)

// Action identifies an operation on a resource.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionExport  Action = "export"
	ActionApprove Action = "approve"
	ActionAssign  Action = "assign"
	ActionRevoke  Action = "revoke"
)

// Scope narrows an action to a subset of resource instances.
type Scope string

const (
	// ScopeAll is the zero scope; the canonical name omits it.
	ScopeAll Scope = ""

	ScopeOwn      Scope = "own"
	ScopeTeam     Scope = "team"
	ScopeAssigned Scope = "assigned"
)

// AuditLevel controls how much detail the audit collaborator should record
// for uses of a permission.
type AuditLevel string

const (
	AuditNone     AuditLevel = "none"
	AuditStandard AuditLevel = "standard"
	AuditDetailed AuditLevel = "detailed"
)

// Permission describes a single catalog entry. The canonical name returned
// by Name is the identity key; entries are immutable once registered except
// via explicit re-registration.
type Permission struct {
	Resource    Resource       `yaml:"resource" json:"resource"`
	Action      Action         `yaml:"action" json:"action"`
	Scope       Scope          `yaml:"scope,omitempty" json:"scope,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Conditions  map[string]any `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	IsSensitive bool           `yaml:"is_sensitive,omitempty" json:"is_sensitive,omitempty"`
	RequiresMFA bool           `yaml:"requires_mfa,omitempty" json:"requires_mfa,omitempty"`
	AuditLevel  AuditLevel     `yaml:"audit_level,omitempty" json:"audit_level,omitempty"`
}

// Name returns the canonical "resource:action[:scope]" name.
func (p Permission) Name() string {
	return FormatName(p.Resource, p.Action, p.Scope)
}

// FormatName builds a canonical permission name from its components.
// The scope component is omitted when empty.
func FormatName(resource Resource, action Action, scope Scope) string {
	if scope == ScopeAll {
		return string(resource) + Separator + string(action)
	}
	return string(resource) + Separator + string(action) + Separator + string(scope)
}

// ParseName splits a canonical permission name back into its components.
// It is the inverse of FormatName: ParseName(FormatName(r, a, s)) round-trips.
func ParseName(name string) (Resource, Action, Scope, error) {
	parts := strings.Split(name, Separator)
	switch len(parts) {
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return "", "", "", fmt.Errorf("%w: %q", ErrMalformedName, name)
		}
		return Resource(parts[0]), Action(parts[1]), ScopeAll, nil
	case 3:
		if parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return "", "", "", fmt.Errorf("%w: %q", ErrMalformedName, name)
		}
		return Resource(parts[0]), Action(parts[1]), Scope(parts[2]), nil
	default:
		return "", "", "", fmt.Errorf("%w: %q", ErrMalformedName, name)
	}
}
