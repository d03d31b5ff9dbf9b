package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stephnangue/kubecred/cred"
	"github.com/stephnangue/kubecred/logger"
)

// Producer generates a Vault AWS lease and mints the EKS exec credential
// from it.
type Producer struct {
	Reader    *cred.Reader
	Path      cred.LeasePath
	Cluster   string
	Region    string
	ExpiresIn string
	Request   *cred.CredentialsRequest
	Logger    logger.Logger
}

// Produce runs the lease-then-mint pipeline and returns the pretty-printed
// exec-credential document.
func (p *Producer) Produce(ctx context.Context) ([]byte, error) {
	p.Logger.Info("requesting AWS credentials",
		logger.String("mount", p.Path.Mount),
		logger.String("role", p.Path.Role),
	)

	creds, err := p.Reader.GenerateAWSCredentials(ctx, p.Path, p.Request)
	if err != nil {
		return nil, err
	}

	token, err := MintToken(ctx, creds, p.Cluster, p.Region, p.ExpiresIn, p.Logger)
	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding exec credential: %w", err)
	}
	return out, nil
}
