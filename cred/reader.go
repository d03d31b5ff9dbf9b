package cred

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/vault/api"

	"github.com/stephnangue/kubecred/logger"
)

// Reader performs one-shot secret reads against Vault. It never retries or
// caches; every method is exactly one round trip.
type Reader struct {
	vault  *api.Client
	logger logger.Logger
}

// NewReader wraps a Vault API client.
func NewReader(client *api.Client, log logger.Logger) *Reader {
	return &Reader{
		vault:  client,
		logger: log.WithSubsystem("reader"),
	}
}

// GenerateAWSCredentials asks the AWS secrets engine mounted at path.Mount to
// generate a lease for path.Role, forwarding the optional request parameters.
// With parameters present the engine requires a POST; without them a plain
// read suffices.
func (r *Reader) GenerateAWSCredentials(ctx context.Context, path LeasePath, req *CredentialsRequest) (*AwsLeaseCredentials, error) {
	data := make(map[string]interface{})
	if req != nil {
		if req.RoleARN != "" {
			data["role_arn"] = req.RoleARN
		}
		if req.TTL != "" {
			data["ttl"] = req.TTL
		}
	}

	var secret *api.Secret
	var err error
	if len(data) > 0 {
		secret, err = r.vault.Logical().WriteWithContext(ctx, path.CredsPath(), data)
	} else {
		secret, err = r.vault.Logical().ReadWithContext(ctx, path.CredsPath())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultLease, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("%w: no lease returned for role %q on mount %q", ErrVaultLease, path.Role, path.Mount)
	}

	var creds AwsLeaseCredentials
	if err := mapstructure.Decode(secret.Data, &creds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSecret, err)
	}
	if creds.SecurityToken == "" {
		// Newer engine versions return session_token alongside the
		// deprecated security_token field.
		if tok, ok := secret.Data["session_token"].(string); ok {
			creds.SecurityToken = tok
		}
	}
	if creds.AccessKey == "" || creds.SecretKey == "" {
		return nil, fmt.Errorf("%w: lease is missing access_key or secret_key", ErrMalformedSecret)
	}
	creds.LeaseDuration = secret.LeaseDuration

	r.logger.Debug("generated AWS lease",
		logger.String("mount", path.Mount),
		logger.String("role", path.Role),
		logger.String("lease_id", secret.LeaseID),
		logger.Int("lease_duration", secret.LeaseDuration),
		logger.Bool("sts", creds.SecurityToken != ""),
	)

	return &creds, nil
}

// ReadAccessToken reads a broker-issued access token secret at the given raw
// path and returns the payload untouched.
func (r *Reader) ReadAccessToken(ctx context.Context, path string) (map[string]interface{}, error) {
	secret, err := r.vault.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultRead, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("%w: nothing at %q", ErrVaultRead, path)
	}

	r.logger.Debug("read access token secret",
		logger.String("path", path),
		logger.Int("lease_duration", secret.LeaseDuration),
	)

	return secret.Data, nil
}
