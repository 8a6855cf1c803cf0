// Package access orchestrates the permission registry, the role manager and
// the policy engine into a single access decision with request-scoped
// caching.
//
// An access check runs as a fixed pipeline:
//
//  1. Build the policy evaluation context from the request.
//  2. Fetch the user's effective permissions through a TTL cache.
//  3. Gate on MFA when the required permission demands it.
//  4. Match the required permission, falling back to the ":own"-scoped
//     variant combined with a resource-ownership check.
//  5. Ask the policy engine for an override: a Deny wins, anything else
//     (Allow or all-abstain) keeps the permission grant.
//
// Every branch produces a Result with a machine-readable reason and an
// audit-data record for an external audit collaborator; the engine never
// persists audit records itself, and an internal fault always degrades to
// Deny, never to Allow.
//
// Basic usage:
//
//	engine := access.NewEngine(
//	    permission.DefaultRegistry(),
//	    role.NewManager(role.DefaultCatalog()...),
//	    policy.NewEngine(),
//	)
//
//	res := engine.CheckAccess(ctx, access.Request{
//	    UserID:         "user-1",
//	    OrganizationID: "org-1",
//	    Resource:       permission.ResourceInvoice,
//	    Action:         permission.ActionRead,
//	    MFAVerified:    true,
//	})
//	if !res.Allowed {
//	    // res.Decision distinguishes DENY from REQUIRE_MFA
//	}
//
// Role assignment and revocation run through the engine so the per-user
// permission cache is invalidated atomically with the mutation. A check
// racing an in-flight revocation may still see the cached permission set;
// the cache TTL (300s by default) bounds that staleness window.
package access
