package policy

import "errors"

// Domain errors for policy catalog operations.
var (
	// ErrUnknownPolicy is returned when a policy ID is not registered.
	ErrUnknownPolicy = errors.New("policy: unknown policy")

	// ErrInvalidEffect is returned when a loaded policy carries an effect
	// outside ALLOW, DENY and ABSTAIN.
	ErrInvalidEffect = errors.New("policy: invalid effect")
)
