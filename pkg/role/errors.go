package role

import "errors"

// Domain errors for role catalog and assignment operations.
var (
	// ErrUnknownRole is returned when a role name is not in the catalog.
	ErrUnknownRole = errors.New("role: unknown role")

	// ErrDuplicateRole is returned when creating a role under a name that
	// is already used, by a system or a custom role. Creation fails loudly
	// because silently overwriting a role would change live grants.
	ErrDuplicateRole = errors.New("role: duplicate role name")

	// ErrSystemRole is returned when attempting to edit or delete a system role.
	ErrSystemRole = errors.New("role: system roles cannot be modified")

	// ErrInheritanceCycle is returned when the inherits_from chain loops or
	// exceeds the maximum depth. This is a catalog configuration error.
	ErrInheritanceCycle = errors.New("role: inheritance cycle detected")
)
