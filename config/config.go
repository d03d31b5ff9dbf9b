package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCredentialType is returned for a credential type token outside
// the closed gke/eks/gcp set.
var ErrInvalidCredentialType = errors.New("invalid credential type")

// CredentialType selects the backend that produces the token.
type CredentialType int

const (
	TypeGke CredentialType = iota
	TypeEks
	TypeGcp
)

// CredentialTypes lists the accepted credential type tokens.
var CredentialTypes = []string{"gke", "eks", "gcp"}

// String returns the string representation of CredentialType
func (t CredentialType) String() string {
	switch t {
	case TypeGke:
		return "gke"
	case TypeEks:
		return "eks"
	case TypeGcp:
		return "gcp"
	default:
		return "unknown"
	}
}

// ParseCredentialType parses a credential type token, case-insensitively.
func ParseCredentialType(s string) (CredentialType, error) {
	switch strings.ToLower(s) {
	case "gke":
		return TypeGke, nil
	case "eks":
		return TypeEks, nil
	case "gcp":
		return TypeGcp, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected one of %s)",
			ErrInvalidCredentialType, s, strings.Join(CredentialTypes, ", "))
	}
}

// Config is the immutable run configuration for kubecred. It is built once
// from flags at process start and passed explicitly down the pipeline.
type Config struct {
	Type CredentialType
	Path string

	VaultAddress   string
	VaultToken     string
	VaultTokenFile string
	VaultCACert    string

	Output string

	EksRoleARN string
	EksTTL     string
	EksExpiry  string
	EksCluster string
	EksRegion  string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Validate checks cross-field requirements that flag parsing cannot express.
func (c *Config) Validate() error {
	switch c.Type {
	case TypeGke, TypeEks:
		if c.Path == "" {
			return fmt.Errorf("credential type %q requires a path argument", c.Type)
		}
	}
	if c.Type == TypeEks && c.EksCluster == "" {
		return fmt.Errorf("credential type \"eks\" requires --eks-cluster")
	}
	return nil
}
