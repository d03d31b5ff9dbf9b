package cmd

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/oklog/ulid"
	"github.com/spf13/cobra"

	"github.com/stephnangue/kubecred/cmd/helpers"
	"github.com/stephnangue/kubecred/config"
	"github.com/stephnangue/kubecred/logger"
	"github.com/stephnangue/kubecred/provider"
)

var (
	flagVaultAddress   string
	flagVaultToken     string
	flagVaultTokenFile string
	flagVaultCACert    string
	flagOutput         string
	flagEksRoleARN     string
	flagEksTTL         string
	flagEksExpiry      string
	flagEksCluster     string
	flagEksRegion      string
	flagLogLevel       string
	flagLogFormat      string
	flagLogFile        string

	// Version is stamped at build time via -ldflags.
	Version = "dev"

	kubecredCmd = &cobra.Command{
		Use:     "kubecred <type> [path]",
		Version: Version,
		Short:   "Read access tokens from Vault to authenticate with Kubernetes",
		Long: `Kubecred exchanges dynamic secrets held in Vault for short-lived Kubernetes
client authentication tokens. Type selects the backend: "eks" turns a Vault
AWS lease into an ExecCredential token, "gke" normalizes a broker-issued GCP
access token read from Vault, and "gcp" uses the ambient Google SDK
authentication flow without touching Vault.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.RangeArgs(1, 2),
		ValidArgs:     config.CredentialTypes,
		RunE:          run,
	}
)

func Execute() {
	if err := kubecredCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	kubecredCmd.Flags().StringVar(&flagVaultAddress, "vault-address", "", "Vault address, including scheme and port (env: VAULT_ADDR)")
	kubecredCmd.Flags().StringVar(&flagVaultToken, "vault-token", "", "Vault token (env: VAULT_TOKEN)")
	kubecredCmd.Flags().StringVar(&flagVaultTokenFile, "vault-token-file", "", "Path to a file holding the Vault token")
	kubecredCmd.Flags().StringVar(&flagVaultCACert, "vault-ca-cert", "", "Path to a PEM encoded CA certificate for Vault (env: VAULT_CACERT)")
	kubecredCmd.Flags().StringVar(&flagOutput, "output", "-", "Where to write the credentials; \"-\" is stdout")
	kubecredCmd.Flags().StringVar(&flagEksRoleARN, "eks-role-arn", "", "ARN of the role to assume when the Vault role carries multiple roles")
	kubecredCmd.Flags().StringVar(&flagEksTTL, "eks-ttl", "", "Requested TTL for the STS lease (e.g. 15m)")
	kubecredCmd.Flags().StringVar(&flagEksExpiry, "eks-expiry", "", "Expiry in seconds encoded into the Kubernetes token")
	kubecredCmd.Flags().StringVar(&flagEksCluster, "eks-cluster", "", "Name of the EKS cluster; required for type \"eks\"")
	kubecredCmd.Flags().StringVar(&flagEksRegion, "eks-region", "", "AWS region; defaults to the global STS endpoint")
	kubecredCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	kubecredCmd.Flags().StringVar(&flagLogFormat, "log-format", "default", "Log format (default, json)")
	kubecredCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Also write logs to this file, with rotation")

	kubecredCmd.MarkFlagsMutuallyExclusive("vault-token", "vault-token-file")
}

func run(cmd *cobra.Command, args []string) error {
	credType, err := config.ParseCredentialType(args[0])
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Type:           credType,
		VaultAddress:   flagVaultAddress,
		VaultToken:     flagVaultToken,
		VaultTokenFile: flagVaultTokenFile,
		VaultCACert:    flagVaultCACert,
		Output:         flagOutput,
		EksRoleARN:     flagEksRoleARN,
		EksTTL:         flagEksTTL,
		EksExpiry:      flagEksExpiry,
		EksCluster:     flagEksCluster,
		EksRegion:      flagEksRegion,
		LogLevel:       flagLogLevel,
		LogFormat:      flagLogFormat,
		LogFile:        flagLogFile,
	}
	if len(args) == 2 {
		cfg.Path = args[1]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg)
	defer log.Close()

	var client *helpers.VaultClient
	if cfg.Type != config.TypeGcp {
		client, err = helpers.Client(cfg, log)
		if err != nil {
			return err
		}
	}

	producer, err := provider.New(cfg, client.API(), log)
	if err != nil {
		return err
	}

	document, err := producer.Produce(cmd.Context())
	if err != nil {
		return err
	}

	return helpers.WriteOutput(cfg.Output, document)
}

func newLogger(cfg *config.Config) logger.Logger {
	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLogLevel(cfg.LogLevel)
	logCfg.Format = logger.ParseOutputFormat(cfg.LogFormat)
	logCfg.Subsystem = "kubecred"
	if cfg.LogFile != "" {
		logCfg.FileConfig = logger.DefaultFileConfig(cfg.LogFile)
	}

	runID := ulid.MustNew(ulid.Now(), rand.Reader).String()
	return logger.NewZerologLogger(logCfg).WithFields(logger.String("run_id", runID))
}
