package policy

import (
	"strings"
	"time"
)

// Context carries the request-scoped facts a policy evaluates against.
// It is built once per access check and never mutated during evaluation.
type Context struct {
	UserID         string
	OrganizationID string
	IPAddress      string
	MFAVerified    bool
	SessionID      string
	CurrentTime    time.Time
	Role           string

	// Resource holds the target resource's data (owner, amount, status, ...).
	Resource map[string]any

	// Extra holds caller-supplied additional context.
	Extra map[string]any
}

// Value resolves a dot-path into the context. Top-level names map onto the
// well-known fields (user_id, organization_id, ip_address, mfa_verified,
// session_id, role, resource); anything else is looked up in Extra. Deeper
// components descend into nested maps.
func (c *Context) Value(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")

	var current any
	switch parts[0] {
	case "user_id":
		current = c.UserID
	case "organization_id":
		current = c.OrganizationID
	case "ip_address":
		current = c.IPAddress
	case "mfa_verified":
		current = c.MFAVerified
	case "session_id":
		current = c.SessionID
	case "role":
		current = c.Role
	case "resource":
		current = c.Resource
	default:
		v, ok := c.Extra[parts[0]]
		if !ok {
			return nil, false
		}
		current = v
	}

	for _, part := range parts[1:] {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// Now returns the context's evaluation time, falling back to the wall clock
// when the caller did not stamp one.
func (c *Context) Now() time.Time {
	if c.CurrentTime.IsZero() {
		return time.Now()
	}
	return c.CurrentTime
}
