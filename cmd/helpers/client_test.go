package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephnangue/kubecred/config"
	"github.com/stephnangue/kubecred/logger"
)

func TestResolveTokenFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("s.filetoken\n"), 0o600))

	cfg := &config.Config{VaultTokenFile: path, VaultToken: "s.flagtoken"}
	token, err := resolveToken(cfg, logger.NopLogger{})
	require.NoError(t, err)
	// The token file wins over the flag, and trailing whitespace is dropped.
	assert.Equal(t, "s.filetoken", token)
}

func TestResolveTokenMissingFile(t *testing.T) {
	cfg := &config.Config{VaultTokenFile: filepath.Join(t.TempDir(), "absent")}
	_, err := resolveToken(cfg, logger.NopLogger{})
	require.Error(t, err)
}

func TestClientUsesConfiguredAddress(t *testing.T) {
	cfg := &config.Config{
		VaultAddress: "https://vault.example.com:8200",
		VaultToken:   "s.token",
	}
	client, err := Client(cfg, logger.NopLogger{})
	require.NoError(t, err)
	assert.Equal(t, "https://vault.example.com:8200", client.Address())
}

func TestNilClientAPI(t *testing.T) {
	var client *VaultClient
	assert.Nil(t, client.API())
}
