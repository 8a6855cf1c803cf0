// Package permission provides the canonical permission catalog and
// permission-name matching for the authorization engine.
//
// Permissions are identified by a colon-separated name of the form
// "resource:action" or "resource:action:scope" (e.g. "invoice:read:own").
// The registry stores the catalog of known permissions together with their
// security flags (sensitive, MFA-required, audit level) and named permission
// groups used for bulk role construction.
//
// Matching rules:
//
//   - Exact match: "invoice:read" matches "invoice:read".
//   - Trailing wildcard: a grant ending in ":*" matches every required name
//     sharing the prefix, so "invoice:*" matches "invoice:read:own".
//   - Component wildcard: "*" at any position matches that component.
//   - Generalization: a grant with fewer components than the requirement
//     matches ("invoice:read" grants "invoice:read:own"). The reverse never
//     holds: a scoped grant like "invoice:read:own" does not satisfy a
//     request for unscoped "invoice:read".
//
// Basic usage:
//
//	reg := permission.DefaultRegistry()
//	granted := []string{"invoice:*", "report:read"}
//	if permission.HasPermission("invoice:read:own", granted) {
//	    // allowed
//	}
package permission
