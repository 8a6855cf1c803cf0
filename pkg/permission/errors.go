package permission

import "errors"

// Domain errors for permission catalog operations.
var (
	// ErrUnknownGroup is returned when a permission group name is not registered.
	ErrUnknownGroup = errors.New("permission: unknown group")

	// ErrMalformedName is returned when a permission name cannot be parsed.
	ErrMalformedName = errors.New("permission: malformed name")
)
