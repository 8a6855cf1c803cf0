package access

import "errors"

// Domain errors for access-engine operations.
var (
	// ErrHierarchyViolation is returned when the acting role is not
	// strictly superior to the role it attempts to grant, revoke or
	// administer, or the target role is not assignable.
	ErrHierarchyViolation = errors.New("access: role hierarchy violation")

	// ErrRoleNotAssigned is returned when revoking a role the user does
	// not hold.
	ErrRoleNotAssigned = errors.New("access: role not assigned")
)
