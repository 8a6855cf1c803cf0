// Package role provides the role catalog, role hierarchy and the live
// user-to-role assignment map for the authorization engine.
//
// Roles carry a numeric hierarchy level (higher is more privileged), a set
// of permission-name strings (wildcards allowed) and optional single-parent
// inheritance. A role's effective permission set is its own permissions
// unioned, recursively, with its parent's effective set.
//
// The hierarchy level also controls delegation: a role may only assign roles
// that are assignable and strictly below its own level.
//
// Basic usage:
//
//	mgr := role.NewManager(role.DefaultCatalog()...)
//	mgr.AssignRole("user-1", "accountant", "org-1")
//
//	perms, err := mgr.UserPermissions("user-1", "org-1")
//	if err != nil {
//	    // inheritance cycle in the catalog
//	}
package role
