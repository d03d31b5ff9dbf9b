package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stephnangue/kubecred/cred"
	"github.com/stephnangue/kubecred/logger"
)

// BrokerProducer reads a broker-issued access token from Vault and
// normalizes it.
type BrokerProducer struct {
	Reader *cred.Reader
	Path   string
	Logger logger.Logger
}

// Produce fetches the secret and returns the pretty-printed token document.
func (p *BrokerProducer) Produce(ctx context.Context) ([]byte, error) {
	p.Logger.Info("requesting GKE access token", logger.String("path", p.Path))

	data, err := p.Reader.ReadAccessToken(ctx, p.Path)
	if err != nil {
		return nil, err
	}

	token, err := NewAccessTokenFromLease(data)
	if err != nil {
		return nil, err
	}

	return marshalToken(token)
}

// SDKProducer obtains a token from the ambient Google SDK flow and
// normalizes it.
type SDKProducer struct {
	Logger logger.Logger
}

// Produce runs the SDK auth flow once and returns the pretty-printed token
// document.
func (p *SDKProducer) Produce(ctx context.Context) ([]byte, error) {
	p.Logger.Info("using Google SDK authentication flow")

	tok, err := FetchSDKToken(ctx)
	if err != nil {
		return nil, err
	}

	token := NewAccessTokenFromOAuth2(tok, time.Now())
	p.Logger.Debug("acquired SDK token",
		logger.String("expiry", token.Expiry),
		logger.Int64("ttl_seconds", int64(token.TokenTTL)),
	)

	return marshalToken(token)
}

func marshalToken(token *AccessToken) ([]byte, error) {
	out, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding access token: %w", err)
	}
	return out, nil
}
