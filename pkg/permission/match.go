package permission

import "strings"

// Matches reports whether a granted permission name satisfies a required one.
//
// Rules, in order:
//
//  1. Exact equality.
//  2. A grant ending in ":*" matches when the remainder (including the
//     colon) is a prefix of the requirement, so "invoice:*" covers both
//     "invoice:read" and "invoice:read:own".
//  3. Component-wise comparison: each granted component must equal the
//     corresponding required component or be "*". A grant with more
//     components than the requirement never matches; a grant with fewer
//     components generalizes over the unmatched trailing components.
//
// The asymmetry in rule 3 is deliberate: "invoice:read" grants
// "invoice:read:own", but "invoice:read:own" does not grant "invoice:read".
// A narrow grant must never expose the broader operation.
func Matches(required, granted string) bool {
	if granted == required {
		return true
	}

	if strings.HasSuffix(granted, Separator+Wildcard) {
		prefix := strings.TrimSuffix(granted, Wildcard)
		return strings.HasPrefix(required, prefix)
	}

	grantedParts := strings.Split(granted, Separator)
	requiredParts := strings.Split(required, Separator)
	if len(grantedParts) > len(requiredParts) {
		return false
	}

	for i, part := range grantedParts {
		if part != Wildcard && part != requiredParts[i] {
			return false
		}
	}
	return true
}

// HasPermission reports whether any permission in the granted set matches
// the required permission name.
func HasPermission(required string, granted []string) bool {
	_, ok := FindMatch(required, granted)
	return ok
}

// FindMatch returns the first granted permission matching the required one.
func FindMatch(required string, granted []string) (string, bool) {
	for _, g := range granted {
		if Matches(required, g) {
			return g, true
		}
	}
	return "", false
}
