package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephnangue/kubecred/config"
	"github.com/stephnangue/kubecred/cred"
	"github.com/stephnangue/kubecred/logger"
	"github.com/stephnangue/kubecred/provider/aws"
	"github.com/stephnangue/kubecred/provider/gcp"
)

func TestNewSelectsBackend(t *testing.T) {
	log := logger.NopLogger{}

	t.Run("eks", func(t *testing.T) {
		cfg := &config.Config{
			Type:       config.TypeEks,
			Path:       "aws/creds/deploy-role",
			EksCluster: "prod",
			EksRegion:  "eu-west-1",
			EksRoleARN: "arn:aws:iam::123456789012:role/deploy",
		}
		p, err := New(cfg, nil, log)
		require.NoError(t, err)

		producer, ok := p.(*aws.Producer)
		require.True(t, ok, "expected *aws.Producer, got %T", p)
		assert.Equal(t, "aws", producer.Path.Mount)
		assert.Equal(t, "deploy-role", producer.Path.Role)
		assert.Equal(t, "prod", producer.Cluster)
		assert.Equal(t, "arn:aws:iam::123456789012:role/deploy", producer.Request.RoleARN)
	})

	t.Run("eks rejects malformed path", func(t *testing.T) {
		cfg := &config.Config{
			Type:       config.TypeEks,
			Path:       "aws/deploy-role",
			EksCluster: "prod",
		}
		_, err := New(cfg, nil, log)
		require.ErrorIs(t, err, cred.ErrInvalidVaultPath)
	})

	t.Run("gke", func(t *testing.T) {
		cfg := &config.Config{Type: config.TypeGke, Path: "gcp/token/my-roleset"}
		p, err := New(cfg, nil, log)
		require.NoError(t, err)

		producer, ok := p.(*gcp.BrokerProducer)
		require.True(t, ok, "expected *gcp.BrokerProducer, got %T", p)
		assert.Equal(t, "gcp/token/my-roleset", producer.Path)
	})

	t.Run("gcp", func(t *testing.T) {
		cfg := &config.Config{Type: config.TypeGcp}
		p, err := New(cfg, nil, log)
		require.NoError(t, err)

		_, ok := p.(*gcp.SDKProducer)
		require.True(t, ok, "expected *gcp.SDKProducer, got %T", p)
	})
}
