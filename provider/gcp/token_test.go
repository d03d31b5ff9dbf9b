package gcp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/stephnangue/kubecred/cred"
)

func TestParseEpochSeconds(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    int64
		wantErr error
	}{
		{
			name:  "json number",
			value: json.Number("1717243200"),
			want:  1717243200,
		},
		{
			name:  "zero epoch",
			value: json.Number("0"),
			want:  0,
		},
		{
			name:  "negative epoch",
			value: json.Number("-1"),
			want:  -1,
		},
		{
			name:  "max signed",
			value: json.Number("9223372036854775807"),
			want:  9223372036854775807,
		},
		{
			name:    "unsigned overflow",
			value:   json.Number("9223372036854775808"),
			wantErr: ErrEpochOutOfRange,
		},
		{
			name:    "max unsigned",
			value:   json.Number("18446744073709551615"),
			wantErr: ErrEpochOutOfRange,
		},
		{
			name:  "native int64",
			value: int64(42),
			want:  42,
		},
		{
			name:    "uint64 overflow",
			value:   uint64(1) << 63,
			wantErr: ErrEpochOutOfRange,
		},
		{
			name:  "string digits",
			value: "1717243200",
			want:  1717243200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEpochSeconds(tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("not an integer", func(t *testing.T) {
		_, err := ParseEpochSeconds(json.Number("12.5"))
		require.Error(t, err)
		_, err = ParseEpochSeconds([]string{"nope"})
		require.Error(t, err)
	})
}

func TestNewAccessTokenFromLease(t *testing.T) {
	token, err := NewAccessTokenFromLease(map[string]interface{}{
		"token":              "ya29.broker-token",
		"expires_at_seconds": json.Number("1717243200"),
		"token_ttl":          json.Number("3599"),
	})
	require.NoError(t, err)

	assert.Equal(t, "ya29.broker-token", token.Token)
	assert.Equal(t, "2024-06-01T12:00:00Z", token.Expiry)
	// TTL comes from the payload verbatim, never derived from the epoch.
	assert.Equal(t, uint64(3599), token.TokenTTL)
}

func TestNewAccessTokenFromLeaseErrors(t *testing.T) {
	tests := []struct {
		name string
		data map[string]interface{}
	}{
		{
			name: "missing token",
			data: map[string]interface{}{"expires_at_seconds": json.Number("1")},
		},
		{
			name: "missing expiry",
			data: map[string]interface{}{"token": "t"},
		},
		{
			name: "epoch out of range",
			data: map[string]interface{}{
				"token":              "t",
				"expires_at_seconds": json.Number("18446744073709551615"),
			},
		},
		{
			name: "negative ttl",
			data: map[string]interface{}{
				"token":              "t",
				"expires_at_seconds": json.Number("1"),
				"token_ttl":          json.Number("-5"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccessTokenFromLease(tt.data)
			require.ErrorIs(t, err, cred.ErrMalformedSecret)
		})
	}
}

func TestNewAccessTokenFromOAuth2(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expiry present", func(t *testing.T) {
		token := NewAccessTokenFromOAuth2(&oauth2.Token{
			AccessToken: "ya29.sdk-token",
			Expiry:      now.Add(30 * time.Minute),
		}, now)

		assert.Equal(t, "ya29.sdk-token", token.Token)
		assert.Equal(t, "2024-06-01T12:30:00Z", token.Expiry)
		assert.Equal(t, uint64(1800), token.TokenTTL)
	})

	t.Run("no expiry defaults to 50 minutes", func(t *testing.T) {
		token := NewAccessTokenFromOAuth2(&oauth2.Token{AccessToken: "ya29.sdk-token"}, now)

		assert.Equal(t, "2024-06-01T12:50:00Z", token.Expiry)
		assert.Equal(t, uint64(3000), token.TokenTTL)
	})

	t.Run("skewed expiry keeps ttl well defined", func(t *testing.T) {
		token := NewAccessTokenFromOAuth2(&oauth2.Token{
			AccessToken: "ya29.sdk-token",
			Expiry:      now.Add(-90 * time.Second),
		}, now)

		assert.Equal(t, uint64(90), token.TokenTTL)
	})
}

func TestAccessTokenSerialization(t *testing.T) {
	token := &AccessToken{
		Token:    "ya29.token",
		Expiry:   "2024-06-01T12:00:00Z",
		TokenTTL: 3599,
	}

	raw, err := json.Marshal(token)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Equal(t, "ya29.token", fields["token"])
	assert.Equal(t, "2024-06-01T12:00:00Z", fields["token_expiry"])
	assert.NotContains(t, fields, "token_ttl")
	assert.Len(t, fields, 2)
}
