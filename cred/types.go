package cred

import "time"

// CredentialsRequest carries optional parameters forwarded to the Vault AWS
// secrets engine when generating a lease.
type CredentialsRequest struct {
	// RoleARN selects the role to assume when the Vault role is configured
	// with more than one ARN.
	RoleARN string

	// TTL is the requested lease TTL, as a duration string understood by
	// Vault (e.g. "15m").
	TTL string
}

// AwsLeaseCredentials is the payload of a Vault AWS lease.
type AwsLeaseCredentials struct {
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	SecurityToken string `mapstructure:"security_token"`

	// LeaseDuration is the backend-declared validity window in seconds.
	LeaseDuration int
}

// Expiry derives the credential expiry from the lease duration. STS-issued
// credentials (those carrying a security token) expire at now + lease
// duration. Long-lived IAM user keys have no TTL basis and never expire;
// for those the second return is false.
func (c *AwsLeaseCredentials) Expiry(now time.Time) (time.Time, bool) {
	if c.SecurityToken == "" {
		return time.Time{}, false
	}
	return now.Add(time.Duration(c.LeaseDuration) * time.Second), true
}
