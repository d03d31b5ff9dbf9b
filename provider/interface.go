package provider

import (
	"context"

	"github.com/hashicorp/vault/api"

	"github.com/stephnangue/kubecred/config"
	"github.com/stephnangue/kubecred/cred"
	"github.com/stephnangue/kubecred/logger"
	"github.com/stephnangue/kubecred/provider/aws"
	"github.com/stephnangue/kubecred/provider/gcp"
)

// Producer turns one credential backend into its final JSON document.
// Exactly one Producer runs per invocation; there is no fallback between
// backends on failure.
type Producer interface {
	Produce(ctx context.Context) ([]byte, error)
}

// New selects the Producer for the configured credential type. The gke and
// eks backends need a Vault client and a validated lease path; gcp never
// touches Vault and client may be nil for it.
func New(cfg *config.Config, client *api.Client, log logger.Logger) (Producer, error) {
	switch cfg.Type {
	case config.TypeEks:
		path, err := cred.ValidatePath(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &aws.Producer{
			Reader:    cred.NewReader(client, log),
			Path:      path,
			Cluster:   cfg.EksCluster,
			Region:    cfg.EksRegion,
			ExpiresIn: cfg.EksExpiry,
			Request: &cred.CredentialsRequest{
				RoleARN: cfg.EksRoleARN,
				TTL:     cfg.EksTTL,
			},
			Logger: log.WithSubsystem("aws"),
		}, nil
	case config.TypeGke:
		return &gcp.BrokerProducer{
			Reader: cred.NewReader(client, log),
			Path:   cfg.Path,
			Logger: log.WithSubsystem("gcp"),
		}, nil
	case config.TypeGcp:
		return &gcp.SDKProducer{
			Logger: log.WithSubsystem("gcp"),
		}, nil
	default:
		return nil, config.ErrInvalidCredentialType
	}
}
