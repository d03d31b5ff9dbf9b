package cred

import "errors"

// Domain error kinds. Every failure the pipeline can produce wraps one of
// these sentinels, with the opaque underlying cause attached via %w so that
// errors.Is matches the kind and errors.As still reaches the cause.
var (
	// ErrInvalidVaultPath is returned when a lease path does not have the
	// mount/creds/role shape.
	ErrInvalidVaultPath = errors.New("vault credentials path is invalid")

	// ErrVaultLease is returned when the Vault AWS secrets engine fails to
	// produce a lease.
	ErrVaultLease = errors.New("vault lease generation failed")

	// ErrVaultRead is returned when a generic secret read against Vault fails.
	ErrVaultRead = errors.New("vault secret read failed")

	// ErrMalformedSecret is returned when Vault answers but the payload is
	// missing required fields.
	ErrMalformedSecret = errors.New("vault secret payload is malformed")
)
