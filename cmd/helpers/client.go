package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	vaultapi "github.com/hashicorp/vault/api"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/stephnangue/kubecred/config"
	"github.com/stephnangue/kubecred/logger"
)

// VaultClient wraps the Vault API client used for the run.
type VaultClient struct {
	*vaultapi.Client
}

// API returns the underlying API client. Safe on a nil receiver so the gcp
// backend can skip Vault entirely.
func (c *VaultClient) API() *vaultapi.Client {
	if c == nil {
		return nil
	}
	return c.Client
}

// Client constructs the Vault API client from the environment and the run
// configuration. Retries are turned off: the pipeline performs exactly one
// round trip and the first failure aborts the run.
func Client(cfg *config.Config, log logger.Logger) (*VaultClient, error) {
	apiCfg := vaultapi.DefaultConfig()
	if err := apiCfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.VaultAddress != "" {
		apiCfg.Address = cfg.VaultAddress
	}
	if cfg.VaultCACert != "" {
		if err := apiCfg.ConfigureTLS(&vaultapi.TLSConfig{CACert: cfg.VaultCACert}); err != nil {
			return nil, fmt.Errorf("failed to configure Vault CA certificate: %w", err)
		}
	}

	client, err := vaultapi.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	client.SetMaxRetries(0)

	token, err := resolveToken(cfg, log)
	if err != nil {
		return nil, err
	}
	if token != "" {
		client.SetToken(token)
	}

	log.Debug("Vault client ready", logger.String("address", client.Address()))

	return &VaultClient{Client: client}, nil
}

// resolveToken picks the Vault token the way the Vault CLI does: an explicit
// token file wins, then the CLI token helper (~/.vault-token), then the
// --vault-token flag. VAULT_TOKEN from the environment is already on the
// client as a last resort.
func resolveToken(cfg *config.Config, log logger.Logger) (string, error) {
	if cfg.VaultTokenFile != "" {
		log.Debug("reading Vault token from file", logger.String("path", cfg.VaultTokenFile))
		token, err := readTokenFile(cfg.VaultTokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read Vault token file: %w", err)
		}
		return token, nil
	}

	if token := tokenHelper(log); token != "" {
		return token, nil
	}

	return cfg.VaultToken, nil
}

// tokenHelper mimics the Vault CLI default token helper and tries
// ~/.vault-token, quietly giving up if it is absent.
func tokenHelper(log logger.Logger) string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".vault-token")
	log.Debug("trying Vault token helper", logger.String("path", path))
	token, err := readTokenFile(path)
	if err != nil {
		return ""
	}
	return token
}

func readTokenFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
