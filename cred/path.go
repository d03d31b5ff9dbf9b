package cred

import (
	"fmt"
	"strings"
)

// LeasePath is a validated dynamic-secret path of the form mount/creds/role.
type LeasePath struct {
	Mount string
	Role  string
}

// CredsPath returns the Vault API path the lease is generated against.
func (p LeasePath) CredsPath() string {
	return fmt.Sprintf("%s/creds/%s", p.Mount, p.Role)
}

// ValidatePath parses a three-segment lease path. The middle segment must be
// the literal "creds"; mount and role pass through verbatim, with no trimming
// or case folding. This is the single gate in front of the network layer.
func ValidatePath(path string) (LeasePath, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 {
		return LeasePath{}, fmt.Errorf("%w: %q must have exactly 3 segments", ErrInvalidVaultPath, path)
	}
	for _, part := range parts {
		if part == "" {
			return LeasePath{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidVaultPath, path)
		}
	}
	if parts[1] != "creds" {
		return LeasePath{}, fmt.Errorf("%w: %q second segment must be \"creds\"", ErrInvalidVaultPath, path)
	}
	return LeasePath{Mount: parts[0], Role: parts[2]}, nil
}
