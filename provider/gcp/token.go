package gcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/stephnangue/kubecred/cred"
)

// CloudPlatformScope is the OAuth scope requested from the ambient SDK flow.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// defaultSDKExpiry covers SDK tokens that carry no expiry of their own.
const defaultSDKExpiry = 50 * time.Minute

// ErrGCPAuth is returned when the Google SDK authentication flow fails.
var ErrGCPAuth = errors.New("GCP authentication failed")

// ErrEpochOutOfRange is returned for epoch values that do not fit a signed
// 64-bit integer.
var ErrEpochOutOfRange = errors.New("epoch timestamp out of range")

// AccessToken is the normalized GCP token shape shared by the broker-issued
// and SDK-issued paths. TokenTTL is informational for the caller's own
// scheduling and never serialized.
type AccessToken struct {
	Expiry   string `json:"token_expiry"`
	Token    string `json:"token"`
	TokenTTL uint64 `json:"-"`
}

// ParseEpochSeconds is a validating parse of an epoch-seconds wire value.
// Vault hands numbers over as json.Number; signed and unsigned 64-bit
// magnitudes are both accepted, anything beyond the signed range is not.
func ParseEpochSeconds(v interface{}) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if ts, err := n.Int64(); err == nil {
			return ts, nil
		}
		if _, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return 0, fmt.Errorf("%w: %s", ErrEpochOutOfRange, n.String())
		}
		return 0, fmt.Errorf("epoch timestamp %q is not an integer", n.String())
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case uint64:
		if n > uint64(1<<63-1) {
			return 0, fmt.Errorf("%w: %d", ErrEpochOutOfRange, n)
		}
		return int64(n), nil
	case string:
		ts, err := strconv.ParseInt(n, 10, 64)
		if err == nil {
			return ts, nil
		}
		if _, uerr := strconv.ParseUint(n, 10, 64); uerr == nil {
			return 0, fmt.Errorf("%w: %s", ErrEpochOutOfRange, n)
		}
		return 0, fmt.Errorf("epoch timestamp %q is not an integer", n)
	default:
		return 0, fmt.Errorf("epoch timestamp has unsupported type %T", v)
	}
}

// formatExpiry renders a timestamp the way the wire contract wants it:
// RFC3339, UTC, second precision.
func formatExpiry(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// NewAccessTokenFromLease builds the token from a broker-issued Vault
// payload carrying token, expires_at_seconds (epoch) and token_ttl. The TTL
// is taken from the payload verbatim, not derived from the epoch.
func NewAccessTokenFromLease(data map[string]interface{}) (*AccessToken, error) {
	rawToken, ok := data["token"].(string)
	if !ok || rawToken == "" {
		return nil, fmt.Errorf("%w: missing token", cred.ErrMalformedSecret)
	}

	rawExpiry, ok := data["expires_at_seconds"]
	if !ok {
		return nil, fmt.Errorf("%w: missing expires_at_seconds", cred.ErrMalformedSecret)
	}
	epoch, err := ParseEpochSeconds(rawExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cred.ErrMalformedSecret, err)
	}

	var ttl uint64
	if rawTTL, ok := data["token_ttl"]; ok {
		t, err := ParseEpochSeconds(rawTTL)
		if err != nil || t < 0 {
			return nil, fmt.Errorf("%w: bad token_ttl", cred.ErrMalformedSecret)
		}
		ttl = uint64(t)
	}

	return &AccessToken{
		Token:    rawToken,
		Expiry:   formatExpiry(time.Unix(epoch, 0)),
		TokenTTL: ttl,
	}, nil
}

// NewAccessTokenFromOAuth2 builds the token from an SDK-issued oauth2 token.
// A token without expiry gets now + 50 minutes. The TTL is |expiry - now| in
// whole seconds, so it stays well defined even when the expiry clock sits in
// the past.
func NewAccessTokenFromOAuth2(tok *oauth2.Token, now time.Time) *AccessToken {
	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = now.Add(defaultSDKExpiry)
	}
	delta := expiry.Sub(now)
	if delta < 0 {
		delta = -delta
	}
	return &AccessToken{
		Token:    tok.AccessToken,
		Expiry:   formatExpiry(expiry),
		TokenTTL: uint64(delta / time.Second),
	}
}

// FetchSDKToken runs the ambient Google SDK authentication flow
// (Application Default Credentials) and returns one token.
func FetchSDKToken(ctx context.Context) (*oauth2.Token, error) {
	creds, err := google.FindDefaultCredentials(ctx, CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGCPAuth, err)
	}
	tok, err := creds.TokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGCPAuth, err)
	}
	return tok, nil
}
